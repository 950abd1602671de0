package shipment

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/JTTomasCH/Logicoders/model"
)

// CreateRequest is the shipment creation body. Amounts are whole pesos,
// no fractional precision.
type CreateRequest struct {
	UserID        int           `json:"user_id"`
	ProductType   string        `json:"product_type"`
	DeliveryTime  string        `json:"delivery_time"`
	TransportType string        `json:"transport_type"`
	PaymentMethod string        `json:"payment_method"`
	PickupDate    string        `json:"pickup_date"`
	PickupHour    string        `json:"pickup_hour"`
	DistanceKm    int           `json:"distance_km"`
	PriceCop      int           `json:"price_cop"`
	DeclaredValue *int64        `json:"declared_value"`
	Notes         string        `json:"notes"`
	Remitente     model.Persona `json:"remitente"`
	Destinatario  model.Persona `json:"destinatario"`
}

var (
	docRe   = regexp.MustCompile(`^\d{6,15}$`)
	hourRe  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var (
	productTypes   = map[string]bool{"Documentos": true, "Paquetes": true}
	deliveryTimes  = map[string]bool{"Normal": true, "Urgente": true}
	transportTypes = map[string]bool{"Terrestre": true}
	paymentMethods = map[string]bool{"Contado": true, "Cobro": true, "En línea": true}
)

// Validate checks every field before any mutation and names the offending
// ones in the returned error.
func (req *CreateRequest) Validate() error {
	var bad []string

	if req.UserID <= 0 {
		bad = append(bad, "user_id")
	}
	if !productTypes[req.ProductType] {
		bad = append(bad, "product_type")
	}
	if !deliveryTimes[req.DeliveryTime] {
		bad = append(bad, "delivery_time")
	}
	if !transportTypes[req.TransportType] {
		bad = append(bad, "transport_type")
	}
	if !paymentMethods[req.PaymentMethod] {
		bad = append(bad, "payment_method")
	}
	if _, err := time.Parse("2006-01-02", req.PickupDate); err != nil {
		bad = append(bad, "pickup_date")
	}
	if !hourRe.MatchString(req.PickupHour) {
		bad = append(bad, "pickup_hour")
	}
	if req.DistanceKm < 0 {
		bad = append(bad, "distance_km")
	}
	if req.PriceCop < 0 {
		bad = append(bad, "price_cop")
	}
	if req.DeclaredValue != nil && *req.DeclaredValue < 0 {
		bad = append(bad, "declared_value")
	}

	bad = append(bad, validatePersona("remitente", req.Remitente, true)...)
	bad = append(bad, validatePersona("destinatario", req.Destinatario, false)...)

	if len(bad) > 0 {
		return fmt.Errorf("campos inválidos o faltantes: %s", strings.Join(bad, ", "))
	}
	return nil
}

func validatePersona(role string, p model.Persona, isSender bool) []string {
	var bad []string

	if l := len(strings.TrimSpace(p.Nombre)); l < 2 || l > 120 {
		bad = append(bad, role+".nombre")
	}
	if !docRe.MatchString(p.DocNumero) {
		bad = append(bad, role+".doc_numero")
	}
	if l := len(p.Telefono); l < 7 || l > 20 {
		bad = append(bad, role+".telefono")
	}
	if p.Email != "" && !emailRe.MatchString(p.Email) {
		bad = append(bad, role+".email")
	}
	if l := len(strings.TrimSpace(p.Direccion)); l < 3 || l > 200 {
		bad = append(bad, role+".direccion")
	}

	if isSender {
		if l := len(strings.TrimSpace(p.CiudadOrigen)); l < 2 || l > 120 {
			bad = append(bad, role+".ciudad_origen")
		}
	} else {
		if l := len(strings.TrimSpace(p.CiudadDest)); l < 2 || l > 120 {
			bad = append(bad, role+".ciudad_destino")
		}
	}

	return bad
}
