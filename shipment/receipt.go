package shipment

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/mailer"
	"github.com/JTTomasCH/Logicoders/notify"
	"github.com/JTTomasCH/Logicoders/render"
)

// ReceiptRouter dispatches the per-shipment receipt endpoints:
//
//	GET  /api/recolecciones/{id}/comprobante
//	GET  /api/recolecciones/{id}/comprobante.pdf[?download=1]
//	POST /api/recolecciones/{id}/enviar-comprobante
func ReceiptRouter(db *sqlx.DB, m mailer.Mailer, pdfFn notify.PDFFunc, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/recolecciones/")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 {
			http.NotFound(w, r)
			return
		}

		id, err := strconv.Atoi(parts[0])
		if err != nil || id <= 0 {
			writeJSONError(w, "ID inválido", http.StatusBadRequest)
			return
		}

		switch parts[1] {
		case "comprobante":
			comprobanteHTML(db, w, r, id)
		case "comprobante.pdf":
			comprobantePDF(db, pdfFn, w, r, id)
		case "enviar-comprobante":
			if r.Method != http.MethodPost {
				writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			enviarComprobante(db, m, pdfFn, baseURL, w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

func comprobanteHTML(db *sqlx.DB, w http.ResponseWriter, r *http.Request, id int) {
	det, err := database.GetRecoleccionDetail(db, id)
	if err != nil {
		log.Printf("Error loading comprobante %d: %v", id, err)
		http.Error(w, "Error generando comprobante", http.StatusInternalServerError)
		return
	}
	if det == nil {
		http.Error(w, "Recolección no encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, render.ReceiptHTML(det))
}

func comprobantePDF(db *sqlx.DB, pdfFn notify.PDFFunc, w http.ResponseWriter, r *http.Request, id int) {
	det, err := database.GetRecoleccionDetail(db, id)
	if err != nil {
		log.Printf("Error loading comprobante %d: %v", id, err)
		http.Error(w, "Error generando PDF", http.StatusInternalServerError)
		return
	}
	if det == nil {
		http.Error(w, "Recolección no encontrada", http.StatusNotFound)
		return
	}

	data, err := pdfFn(render.ReceiptHTML(det))
	if err != nil {
		log.Printf("Error printing comprobante %d to pdf: %v", id, err)
		http.Error(w, "Error generando PDF", http.StatusInternalServerError)
		return
	}

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	filename := fmt.Sprintf("Comprobante_%s.pdf", det.NumeroGuia)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	w.Write(data)
}

func enviarComprobante(db *sqlx.DB, m mailer.Mailer, pdfFn notify.PDFFunc, baseURL string, w http.ResponseWriter, r *http.Request, id int) {
	det, err := database.GetRecoleccionDetail(db, id)
	if err != nil {
		log.Printf("Error loading comprobante %d: %v", id, err)
		writeJSONError(w, "Error enviando comprobante", http.StatusInternalServerError)
		return
	}
	if det == nil {
		writeJSONError(w, "Recolección no encontrada", http.StatusNotFound)
		return
	}

	var body struct {
		To string `json:"to"`
	}
	// Body is optional; a missing or empty one means "use the stored email".
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := notify.SendReceipt(m, pdfFn, baseURL, det, strings.TrimSpace(body.To)); err != nil {
		log.Printf("ERR enviar-comprobante %d: %v", id, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sentTo := body.To
	if sentTo == "" {
		sentTo = det.RemEmail
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "sent_to": sentTo})
}
