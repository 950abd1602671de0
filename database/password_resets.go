package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/model"
)

// InvalidateOpenResets marks every unused reset token of a user as consumed,
// so only the most recently requested link stays valid.
func InvalidateOpenResets(db *sqlx.DB, userID int) error {
	const q = `UPDATE password_resets SET used_at = datetime('now') WHERE user_id = ? AND used_at IS NULL`
	if _, err := db.Exec(q, userID); err != nil {
		return fmt.Errorf("InvalidateOpenResets (user %d) failed: %w", userID, err)
	}
	return nil
}

func CreatePasswordReset(db *sqlx.DB, userID int, email, token string, expiresAt time.Time) error {
	const q = `
		INSERT INTO password_resets (user_id, email, token, expires_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := db.Exec(q, userID, email, token, expiresAt.UTC().Format("2006-01-02 15:04:05")); err != nil {
		return fmt.Errorf("CreatePasswordReset (user %d) failed: %w", userID, err)
	}
	return nil
}

// GetValidReset returns the reset row for a token that is unused and not
// expired, or nil.
func GetValidReset(db *sqlx.DB, token string) (*model.PasswordReset, error) {
	var pr model.PasswordReset
	const q = `
		SELECT * FROM password_resets
		WHERE token = ? AND used_at IS NULL AND expires_at > datetime('now')
		LIMIT 1
	`
	err := db.Get(&pr, q, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetValidReset failed: %w", err)
	}
	return &pr, nil
}

func GetValidResetInTx(tx *sqlx.Tx, token string) (*model.PasswordReset, error) {
	var pr model.PasswordReset
	const q = `
		SELECT * FROM password_resets
		WHERE token = ? AND used_at IS NULL AND expires_at > datetime('now')
		LIMIT 1
	`
	err := tx.Get(&pr, q, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetValidResetInTx failed: %w", err)
	}
	return &pr, nil
}

func MarkResetUsedInTx(tx *sqlx.Tx, id int) error {
	if _, err := tx.Exec(`UPDATE password_resets SET used_at = datetime('now') WHERE id = ?`, id); err != nil {
		return fmt.Errorf("MarkResetUsedInTx (id %d) failed: %w", id, err)
	}
	return nil
}
