package payment

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/model"
)

type createRequest struct {
	RecoleccionID int    `json:"recoleccion_id"`
	Method        string `json:"method"`
	PayerName     string `json:"payer_name"`
	PayerDocType  string `json:"payer_doc_type"`
	PayerDoc      string `json:"payer_doc"`
	PayerEmail    string `json:"payer_email"`
	BankName      string `json:"bank_name"`
	AmountCop     int    `json:"amount_cop"`
	Reference     string `json:"reference"`
}

var (
	payerDocRe = regexp.MustCompile(`^\d{6,12}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	docTypes   = map[string]bool{"CC": true, "CE": true, "NIT": true, "PP": true}
)

func (req *createRequest) validate() string {
	var bad []string
	if req.RecoleccionID <= 0 {
		bad = append(bad, "recoleccion_id")
	}
	if req.Method != "PSE" {
		bad = append(bad, "method")
	}
	if l := len(strings.TrimSpace(req.PayerName)); l < 2 || l > 120 {
		bad = append(bad, "payer_name")
	}
	if !docTypes[req.PayerDocType] {
		bad = append(bad, "payer_doc_type")
	}
	if !payerDocRe.MatchString(req.PayerDoc) {
		bad = append(bad, "payer_doc")
	}
	if !emailRe.MatchString(req.PayerEmail) {
		bad = append(bad, "payer_email")
	}
	if l := len(strings.TrimSpace(req.BankName)); l < 2 || l > 120 {
		bad = append(bad, "bank_name")
	}
	if req.AmountCop < 0 {
		bad = append(bad, "amount_cop")
	}
	if l := len(req.Reference); l < 5 || l > 30 {
		bad = append(bad, "reference")
	}
	if len(bad) == 0 {
		return ""
	}
	return "campos inválidos o faltantes: " + strings.Join(bad, ", ")
}

// CreateHandler records an online payment attempt against a shipment. It
// does not capture funds; the gateway integration is simulated, the row
// starts in status CREATED.
func CreateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			writeJSONError(w, msg, http.StatusBadRequest)
			return
		}

		rec, err := database.GetRecoleccionByID(db, req.RecoleccionID)
		if err != nil {
			log.Printf("Payment CreateHandler: %v", err)
			writeJSONError(w, "Error creando el pago", http.StatusInternalServerError)
			return
		}
		if rec == nil {
			writeJSONError(w, "Recolección no encontrada", http.StatusNotFound)
			return
		}
		if rec.PaymentMethod != "En línea" {
			writeJSONError(w, "La recolección no admite pago en línea", http.StatusBadRequest)
			return
		}

		pago := model.Pago{
			RecoleccionID: req.RecoleccionID,
			Method:        req.Method,
			PayerName:     req.PayerName,
			PayerDocType:  req.PayerDocType,
			PayerDoc:      req.PayerDoc,
			PayerEmail:    req.PayerEmail,
			BankName:      req.BankName,
			AmountCop:     req.AmountCop,
			Reference:     req.Reference,
		}
		pagoID, err := database.InsertPago(db, &pago)
		if err != nil {
			log.Printf("Payment CreateHandler: %v", err)
			writeJSONError(w, "Error creando el pago", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":        true,
			"pago_id":   pagoID,
			"reference": req.Reference,
		})
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
