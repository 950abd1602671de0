package shipment

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/model"
	"github.com/JTTomasCH/Logicoders/notify"
)

// Notifier is the post-commit receipt scheduler. Satisfied by
// *notify.Dispatcher; stubbed in tests.
type Notifier interface {
	Enqueue(recoleccionID int)
}

var _ Notifier = (*notify.Dispatcher)(nil)

// CreateHandler processes POST /api/recolecciones: validates the request,
// then runs the allocation as one transaction. The connection is opened
// with _txlock=immediate, so the transaction holds the write lock from
// BEGIN: party upserts, tracking-number allocation and the shipment insert
// either all commit or all roll back, and no two requests can allocate the
// same numero_guia.
func CreateHandler(db *sqlx.DB, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		recoleccionID, numeroGuia, err := createRecoleccion(db, &req)
		if err != nil {
			log.Printf("ERR /api/recolecciones: %v", err)
			writePersistenceError(w, err)
			return
		}

		// Receipt mail runs after commit, on its own goroutine and
		// connection; its failure never reaches this response.
		notifier.Enqueue(recoleccionID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":             true,
			"recoleccion_id": recoleccionID,
			"numero_guia":    numeroGuia,
		})
	}
}

func createRecoleccion(db *sqlx.DB, req *CreateRequest) (int, string, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	remitenteID, err := database.UpsertRemitenteInTx(tx, req.Remitente, req.UserID)
	if err != nil {
		return 0, "", err
	}
	destinatarioID, err := database.UpsertDestinatarioInTx(tx, req.Destinatario)
	if err != nil {
		return 0, "", err
	}

	numeroGuia, err := database.NextGuiaInTx(tx, time.Now())
	if err != nil {
		return 0, "", err
	}

	rec := model.Recoleccion{
		UserID:         req.UserID,
		RemitenteID:    remitenteID,
		DestinatarioID: destinatarioID,
		ProductType:    req.ProductType,
		DeliveryTime:   req.DeliveryTime,
		TransportType:  req.TransportType,
		PaymentMethod:  req.PaymentMethod,
		CityFromLabel:  req.Remitente.CiudadOrigen,
		CityToLabel:    req.Destinatario.CiudadDest,
		PickupDate:     req.PickupDate,
		PickupHour:     req.PickupHour,
		DistanceKm:     req.DistanceKm,
		PriceCop:       req.PriceCop,
		NumeroGuia:     numeroGuia,
	}
	if req.Notes != "" {
		rec.Notes = sql.NullString{String: req.Notes, Valid: true}
	}
	if req.DeclaredValue != nil {
		rec.DeclaredValue = sql.NullInt64{Int64: *req.DeclaredValue, Valid: true}
	}

	recoleccionID, err := database.InsertRecoleccionInTx(tx, &rec)
	if err != nil {
		return 0, "", err
	}

	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return recoleccionID, numeroGuia, nil
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// writePersistenceError reports a failed allocation. The transaction is
// already rolled back by the time this runs; the SQLite error code rides
// along for support diagnostics.
func writePersistenceError(w http.ResponseWriter, err error) {
	code := ""
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		code = serr.Code.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Error creando la recolección",
		"code":    code,
	})
}
