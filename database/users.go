package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/model"
)

// GetUserByEmail returns the active user for a normalized email, or nil
// when no account exists.
func GetUserByEmail(db *sqlx.DB, email string) (*model.User, error) {
	var u model.User
	err := db.Get(&u, `SELECT * FROM usuarios WHERE email = ? LIMIT 1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetUserByEmail failed: %w", err)
	}
	return &u, nil
}

func GetUserByID(db *sqlx.DB, id int) (*model.User, error) {
	var u model.User
	err := db.Get(&u, `SELECT * FROM usuarios WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetUserByID failed: %w", err)
	}
	return &u, nil
}

// ActiveUserExists reports whether an active account already uses the email
// or the username.
func ActiveUserExists(db *sqlx.DB, email, username string) (bool, error) {
	var one int
	err := db.Get(&one, `SELECT 1 FROM usuarios WHERE email = ? OR username = ? LIMIT 1`, email, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("ActiveUserExists failed: %w", err)
	}
	return true, nil
}

func ActiveUserExistsInTx(tx *sqlx.Tx, email, username string) (bool, error) {
	var one int
	err := tx.Get(&one, `SELECT 1 FROM usuarios WHERE email = ? OR username = ? LIMIT 1`, email, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("ActiveUserExistsInTx failed: %w", err)
	}
	return true, nil
}

func UpdateUserPassword(db *sqlx.DB, userID int, hash string) error {
	if _, err := db.Exec(`UPDATE usuarios SET password = ? WHERE id = ?`, hash, userID); err != nil {
		return fmt.Errorf("UpdateUserPassword (user %d) failed: %w", userID, err)
	}
	return nil
}

func UpdateUserPasswordInTx(tx *sqlx.Tx, userID int, hash string) error {
	if _, err := tx.Exec(`UPDATE usuarios SET password = ? WHERE id = ?`, hash, userID); err != nil {
		return fmt.Errorf("UpdateUserPasswordInTx (user %d) failed: %w", userID, err)
	}
	return nil
}

// CreateUserFromPendingInTx promotes a confirmed pending registration to an
// active account. Every account created this way gets role 1 (remitente).
func CreateUserFromPendingInTx(tx *sqlx.Tx, pend *model.PendingUser) error {
	const q = `
		INSERT INTO usuarios (name, email, username, password, role_id)
		VALUES (?, ?, ?, ?, 1)
	`
	if _, err := tx.Exec(q, pend.Name, pend.Email, pend.Username, pend.Password); err != nil {
		return fmt.Errorf("CreateUserFromPendingInTx (%s) failed: %w", pend.Email, err)
	}
	return nil
}

func CreatePendingUser(db *sqlx.DB, name, email, username, hash, token string) error {
	const q = `
		INSERT INTO usuarios_pendientes (name, email, username, password, token)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.Exec(q, name, email, username, hash, token); err != nil {
		return fmt.Errorf("CreatePendingUser (%s) failed: %w", email, err)
	}
	return nil
}

func PendingUserExists(db *sqlx.DB, email, username string) (bool, error) {
	var one int
	err := db.Get(&one, `SELECT 1 FROM usuarios_pendientes WHERE email = ? OR username = ? LIMIT 1`, email, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("PendingUserExists failed: %w", err)
	}
	return true, nil
}

func PendingUserExistsByEmail(db *sqlx.DB, email string) (bool, error) {
	var one int
	err := db.Get(&one, `SELECT 1 FROM usuarios_pendientes WHERE email = ? LIMIT 1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("PendingUserExistsByEmail failed: %w", err)
	}
	return true, nil
}

func GetPendingByEmail(db *sqlx.DB, email string) (*model.PendingUser, error) {
	var p model.PendingUser
	err := db.Get(&p, `SELECT * FROM usuarios_pendientes WHERE email = ? LIMIT 1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetPendingByEmail failed: %w", err)
	}
	return &p, nil
}

func GetPendingByTokenInTx(tx *sqlx.Tx, token string) (*model.PendingUser, error) {
	var p model.PendingUser
	err := tx.Get(&p, `SELECT * FROM usuarios_pendientes WHERE token = ? LIMIT 1`, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetPendingByTokenInTx failed: %w", err)
	}
	return &p, nil
}

func DeletePendingInTx(tx *sqlx.Tx, id int) error {
	if _, err := tx.Exec(`DELETE FROM usuarios_pendientes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("DeletePendingInTx (id %d) failed: %w", id, err)
	}
	return nil
}
