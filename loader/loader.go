package loader

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// InitDatabase applies the schema and seeds the allocation counters.
// Safe to run on every startup; all statements are idempotent.
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if err := ApplySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")

	if err := seedSequences(db); err != nil {
		return fmt.Errorf("failed to seed code sequences: %w", err)
	}
	log.Println("Code sequences initialized.")

	return nil
}

// ApplySchema executes the embedded schema. Exported so tests can build a
// fresh database without going through full startup.
func ApplySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func seedSequences(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Seeded at zero: the first allocation is number 000001.
	if _, err := tx.Exec(`INSERT OR IGNORE INTO code_sequences (name, last_no) VALUES ('GUIA', 0)`); err != nil {
		return err
	}

	return tx.Commit()
}
