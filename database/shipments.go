package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/model"
)

// InsertRecoleccionInTx persists a shipment row whose numero_guia has
// already been allocated in the same transaction.
func InsertRecoleccionInTx(tx *sqlx.Tx, rec *model.Recoleccion) (int, error) {
	const q = `
		INSERT INTO recolecciones
			(user_id, remitente_id, destinatario_id,
			 product_type, delivery_time, transport_type, payment_method,
			 city_from_label, city_to_label,
			 pickup_date, pickup_hour, distance_km, price_cop,
			 notes, declared_value, numero_guia)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	var id int
	err := tx.Get(&id, q,
		rec.UserID, rec.RemitenteID, rec.DestinatarioID,
		rec.ProductType, rec.DeliveryTime, rec.TransportType, rec.PaymentMethod,
		rec.CityFromLabel, rec.CityToLabel,
		rec.PickupDate, rec.PickupHour, rec.DistanceKm, rec.PriceCop,
		rec.Notes, rec.DeclaredValue, rec.NumeroGuia)
	if err != nil {
		return 0, fmt.Errorf("InsertRecoleccionInTx (guia %s) failed: %w", rec.NumeroGuia, err)
	}
	return id, nil
}

func GetRecoleccionByID(db *sqlx.DB, id int) (*model.Recoleccion, error) {
	var rec model.Recoleccion
	err := db.Get(&rec, `SELECT * FROM recolecciones WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetRecoleccionByID failed: %w", err)
	}
	return &rec, nil
}

// GetRecoleccionDetail joins the shipment with both parties into the
// flattened row the receipt renderer works from. Returns nil when the
// shipment does not exist.
func GetRecoleccionDetail(db *sqlx.DB, id int) (*model.RecoleccionDetail, error) {
	const q = `
		SELECT
			r.id, r.numero_guia, r.created_at, r.pickup_date, r.pickup_hour,
			r.product_type, r.delivery_time, r.transport_type, r.payment_method,
			r.price_cop, r.declared_value, r.distance_km,
			r.city_from_label, r.city_to_label, r.notes,
			d.nombre    AS dest_nombre, d.doc_numero AS dest_doc, d.telefono AS dest_tel,
			d.direccion AS dest_dir, d.ciudad_destino AS dest_city,
			rem.nombre  AS rem_nombre, rem.doc_numero AS rem_doc, rem.telefono AS rem_tel,
			rem.email   AS rem_email, rem.direccion AS rem_dir, rem.ciudad_origen AS rem_city
		FROM recolecciones r
		JOIN destinatarios d  ON d.id = r.destinatario_id
		JOIN remitentes   rem ON rem.id = r.remitente_id
		WHERE r.id = ? LIMIT 1
	`
	var det model.RecoleccionDetail
	err := db.Get(&det, q, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetRecoleccionDetail (id %d) failed: %w", id, err)
	}
	return &det, nil
}

// RecentGuias returns the most recent tracking numbers, newest first.
func RecentGuias(db *sqlx.DB, limit int) ([]string, error) {
	guias := []string{}
	const q = `SELECT numero_guia FROM recolecciones ORDER BY id DESC LIMIT ?`
	if err := db.Select(&guias, q, limit); err != nil {
		return nil, fmt.Errorf("RecentGuias failed: %w", err)
	}
	return guias, nil
}
