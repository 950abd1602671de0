package track

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/database"
)

// trackRow is the flattened join backing one tracking lookup. Payment
// columns are nullable: most shipments never record an online payment.
type trackRow struct {
	RecoleccionID int            `db:"recoleccion_id"`
	NumeroGuia    string         `db:"numero_guia"`
	Estado        string         `db:"estado"`
	CiudadOrigen  string         `db:"ciudad_origen"`
	CiudadDestino string         `db:"ciudad_destino"`
	ProductType   string         `db:"product_type"`
	DeliveryTime  string         `db:"delivery_time"`
	PaymentMethod string         `db:"payment_method"`
	DistanceKm    int            `db:"distance_km"`
	PriceCop      int            `db:"price_cop"`
	CreatedAt     string         `db:"created_at"`
	RemNombre     sql.NullString `db:"remitente_nombre"`
	RemDoc        sql.NullString `db:"remitente_doc"`
	RemTel        sql.NullString `db:"remitente_tel"`
	RemEmail      sql.NullString `db:"remitente_email"`
	RemDir        sql.NullString `db:"remitente_dir"`
	RemCiudad     sql.NullString `db:"remitente_ciudad"`
	DestNombre    sql.NullString `db:"destinatario_nombre"`
	DestDoc       sql.NullString `db:"destinatario_doc"`
	DestTel       sql.NullString `db:"destinatario_tel"`
	DestDir       sql.NullString `db:"destinatario_dir"`
	DestCiudad    sql.NullString `db:"destinatario_ciudad"`
}

type timelineStep struct {
	Step string `json:"step"`
	At   string `json:"at"`
	Note string `json:"note"`
}

// GetByGuiaHandler answers GET /api/track/{guia} with the flattened
// tracking view. An unknown guía is a 404, never a server error.
func GetByGuiaHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guia := strings.TrimPrefix(r.URL.Path, "/api/track/")
		if guia == "" || strings.Contains(guia, "/") {
			writeJSONError(w, "Guía requerida", http.StatusBadRequest)
			return
		}

		const q = `
			SELECT
				r.id AS recoleccion_id, r.numero_guia, r.estado,
				r.city_from_label AS ciudad_origen, r.city_to_label AS ciudad_destino,
				r.product_type, r.delivery_time, r.payment_method,
				r.distance_km, r.price_cop, r.created_at,
				rem.nombre AS remitente_nombre, rem.doc_numero AS remitente_doc,
				rem.telefono AS remitente_tel, rem.email AS remitente_email,
				rem.direccion AS remitente_dir, rem.ciudad_origen AS remitente_ciudad,
				des.nombre AS destinatario_nombre, des.doc_numero AS destinatario_doc,
				des.telefono AS destinatario_tel, des.direccion AS destinatario_dir,
				des.ciudad_destino AS destinatario_ciudad
			FROM recolecciones r
			LEFT JOIN remitentes rem  ON rem.id = r.remitente_id
			LEFT JOIN destinatarios des ON des.id = r.destinatario_id
			WHERE r.numero_guia = ?
			LIMIT 1
		`
		var row trackRow
		err := db.Get(&row, q, guia)
		if err == sql.ErrNoRows {
			writeJSONError(w, "Guía no encontrada", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("Track GetByGuia error: %v", err)
			writeJSONError(w, "Error consultando la guía", http.StatusInternalServerError)
			return
		}

		pago, err := database.GetLatestPagoByRecoleccion(db, row.RecoleccionID)
		if err != nil {
			log.Printf("Track GetByGuia payment error: %v", err)
			writeJSONError(w, "Error consultando la guía", http.StatusInternalServerError)
			return
		}

		estado := row.Estado
		if estado == "" {
			estado = "CREADO"
		}

		timeline := []timelineStep{{
			Step: "CREADA",
			At:   row.CreatedAt,
			Note: fmt.Sprintf("Solicitud registrada (%s → %s)", row.CiudadOrigen, row.CiudadDestino),
		}}

		resp := map[string]interface{}{
			"guia":        row.NumeroGuia,
			"estado":      estado,
			"origen":      row.CiudadOrigen,
			"destino":     row.CiudadDestino,
			"producto":    row.ProductType,
			"tiempo":      row.DeliveryTime,
			"metodoPago":  row.PaymentMethod,
			"distanciaKm": row.DistanceKm,
			"precioCOP":   row.PriceCop,
			"creadoEn":    row.CreatedAt,
			"remitente": map[string]interface{}{
				"nombre":    row.RemNombre.String,
				"doc":       row.RemDoc.String,
				"tel":       row.RemTel.String,
				"email":     row.RemEmail.String,
				"direccion": row.RemDir.String,
				"ciudad":    row.RemCiudad.String,
			},
			"destinatario": map[string]interface{}{
				"nombre":    row.DestNombre.String,
				"doc":       row.DestDoc.String,
				"tel":       row.DestTel.String,
				"direccion": row.DestDir.String,
				"ciudad":    row.DestCiudad.String,
			},
		}

		if pago != nil {
			resp["pago"] = map[string]interface{}{
				"status":     pago.Status,
				"referencia": pago.Reference,
				"montoCOP":   pago.AmountCop,
				"banco":      pago.BankName,
				"creadoEn":   pago.CreatedAt,
			}
			timeline = append(timeline, timelineStep{
				Step: "PAGO_" + pago.Status,
				At:   pago.CreatedAt,
				Note: fmt.Sprintf("Ref. %s", pago.Reference),
			})
		} else {
			resp["pago"] = nil
		}
		resp["timeline"] = timeline

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// GetEjemplosHandler lists the three most recent tracking numbers for the
// landing-page examples.
func GetEjemplosHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guias, err := database.RecentGuias(db, 3)
		if err != nil {
			log.Printf("Track GetEjemplos error: %v", err)
			writeJSONError(w, "Error listando guías", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(guias)
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
