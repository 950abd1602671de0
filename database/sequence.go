package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// GuiaPrefix is the fixed lead of every tracking number. The full shape
// LG-YYMMDD-NNNNNN is an external contract; support tooling parses it.
const GuiaPrefix = "LG"

// NextSequenceInTx bumps the named counter and returns the new value
// formatted as prefix + zero-padded number. The database is opened with
// _txlock=immediate, so the enclosing transaction already holds the write
// lock when the counter is read: two allocations can never observe the
// same last_no. Rolling back the transaction also rolls back the bump.
func NextSequenceInTx(tx *sqlx.Tx, name, prefix string, padding int) (string, int, error) {
	var lastNo int
	err := tx.Get(&lastNo, `SELECT last_no FROM code_sequences WHERE name = ?`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("sequence '%s' not found", name)
		}
		return "", 0, fmt.Errorf("failed to get sequence '%s': %w", name, err)
	}

	newNo := lastNo + 1
	if _, err := tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, newNo, name); err != nil {
		return "", 0, fmt.Errorf("failed to update sequence '%s': %w", name, err)
	}

	format := fmt.Sprintf("%s%%0%dd", prefix, padding)
	return fmt.Sprintf(format, newNo), newNo, nil
}

// NextGuiaInTx allocates the next tracking number: LG-YYMMDD-NNNNNN, where
// NNNNNN is the global allocation sequence zero-padded to six digits.
func NextGuiaInTx(tx *sqlx.Tx, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", GuiaPrefix, now.Format("060102"))
	guia, _, err := NextSequenceInTx(tx, "GUIA", prefix, 6)
	if err != nil {
		return "", err
	}
	return guia, nil
}
