package loader

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, InitDatabase(db))

	// The guia counter starts at zero so the first allocation is 000001.
	var lastNo int
	require.NoError(t, db.Get(&lastNo, `SELECT last_no FROM code_sequences WHERE name = 'GUIA'`))
	assert.Zero(t, lastNo)

	// A second run must not reset a counter that has advanced.
	_, err = db.Exec(`UPDATE code_sequences SET last_no = 41 WHERE name = 'GUIA'`)
	require.NoError(t, err)
	require.NoError(t, InitDatabase(db))
	require.NoError(t, db.Get(&lastNo, `SELECT last_no FROM code_sequences WHERE name = 'GUIA'`))
	assert.Equal(t, 41, lastNo)

	for _, table := range []string{
		"usuarios", "usuarios_pendientes", "password_resets",
		"remitentes", "destinatarios", "recolecciones", "pagos",
	} {
		var n int
		require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table), "table %s missing", table)
		assert.Zero(t, n)
	}
}
