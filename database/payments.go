package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/model"
)

func InsertPago(db *sqlx.DB, p *model.Pago) (int, error) {
	const q = `
		INSERT INTO pagos
			(recoleccion_id, method, payer_name, payer_doc_type, payer_doc,
			 payer_email, bank_name, amount_cop, reference, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'CREATED')
		RETURNING id
	`
	var id int
	err := db.Get(&id, q,
		p.RecoleccionID, p.Method, p.PayerName, p.PayerDocType, p.PayerDoc,
		p.PayerEmail, p.BankName, p.AmountCop, p.Reference)
	if err != nil {
		return 0, fmt.Errorf("InsertPago (recoleccion %d) failed: %w", p.RecoleccionID, err)
	}
	return id, nil
}

// GetLatestPagoByRecoleccion returns the most recent payment row of a
// shipment, or nil when none was ever recorded.
func GetLatestPagoByRecoleccion(db *sqlx.DB, recoleccionID int) (*model.Pago, error) {
	var p model.Pago
	const q = `
		SELECT * FROM pagos
		WHERE recoleccion_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	err := db.Get(&p, q, recoleccionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetLatestPagoByRecoleccion failed: %w", err)
	}
	return &p, nil
}
