package model

type Pago struct {
	ID            int    `db:"id" json:"id"`
	RecoleccionID int    `db:"recoleccion_id" json:"recoleccion_id"`
	Method        string `db:"method" json:"method"`
	PayerName     string `db:"payer_name" json:"payer_name"`
	PayerDocType  string `db:"payer_doc_type" json:"payer_doc_type"`
	PayerDoc      string `db:"payer_doc" json:"payer_doc"`
	PayerEmail    string `db:"payer_email" json:"payer_email"`
	BankName      string `db:"bank_name" json:"bank_name"`
	AmountCop     int    `db:"amount_cop" json:"amount_cop"`
	Reference     string `db:"reference" json:"reference"`
	Status        string `db:"status" json:"status"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}
