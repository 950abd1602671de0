package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/model"
)

// UpsertRemitenteInTx inserts or refreshes the sender profile of a user.
// The UNIQUE constraint on user_id makes the operation race-free: there is
// never more than one remitente row per account, last write wins.
func UpsertRemitenteInTx(tx *sqlx.Tx, r model.Persona, userID int) (int, error) {
	const q = `
		INSERT INTO remitentes (user_id, nombre, doc_numero, telefono, email, direccion, ciudad_origen)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			nombre        = excluded.nombre,
			doc_numero    = excluded.doc_numero,
			telefono      = excluded.telefono,
			email         = excluded.email,
			direccion     = excluded.direccion,
			ciudad_origen = excluded.ciudad_origen
		RETURNING id
	`
	var id int
	err := tx.Get(&id, q, userID, r.Nombre, r.DocNumero, r.Telefono, r.Email, r.Direccion, r.CiudadOrigen)
	if err != nil {
		return 0, fmt.Errorf("UpsertRemitenteInTx (user %d) failed: %w", userID, err)
	}
	return id, nil
}

// UpsertDestinatarioInTx inserts or refreshes a receiver keyed by document
// number. Receivers are shared across shipments to the same person.
func UpsertDestinatarioInTx(tx *sqlx.Tx, d model.Persona) (int, error) {
	const q = `
		INSERT INTO destinatarios (nombre, doc_numero, telefono, direccion, ciudad_destino)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(doc_numero) DO UPDATE SET
			nombre         = excluded.nombre,
			telefono       = excluded.telefono,
			direccion      = excluded.direccion,
			ciudad_destino = excluded.ciudad_destino
		RETURNING id
	`
	var id int
	err := tx.Get(&id, q, d.Nombre, d.DocNumero, d.Telefono, d.Direccion, d.CiudadDest)
	if err != nil {
		return 0, fmt.Errorf("UpsertDestinatarioInTx (doc %s) failed: %w", d.DocNumero, err)
	}
	return id, nil
}

func CountRemitentesByUser(db *sqlx.DB, userID int) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM remitentes WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("CountRemitentesByUser failed: %w", err)
	}
	return n, nil
}
