package account

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JTTomasCH/Logicoders/auth"
	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/loader"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	config.SetConfig(config.Config{JWTSecret: "test-secret"})
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

func seedUserWithToken(t *testing.T, db *sqlx.DB) (int, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), 10)
	require.NoError(t, err)
	var id int
	require.NoError(t, db.Get(&id, `
		INSERT INTO usuarios (name, email, username, password, role_id)
		VALUES ('Ana Prueba', 'ana@example.com', 'anaprueba', ?, 1)
		RETURNING id`, string(hash)))

	token, err := auth.SignToken(id, "ana@example.com", 1)
	require.NoError(t, err)
	return id, token
}

func TestMeReturnsOwnRow(t *testing.T) {
	db := openTestDB(t)
	userID, token := seedUserWithToken(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	MeHandler(db)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "ana@example.com", resp.User.Email)
}

func TestMeRequiresToken(t *testing.T) {
	db := openTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	MeHandler(db)(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	rec = httptest.NewRecorder()
	MeHandler(db)(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func putPassword(t *testing.T, db *sqlx.DB, token string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/me/password", bytes.NewReader(raw))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ChangePasswordHandler(db)(rec, req)
	return rec
}

func TestChangePassword(t *testing.T) {
	db := openTestDB(t)
	userID, token := seedUserWithToken(t, db)

	rec := putPassword(t, db, token, map[string]string{
		"currentPassword": "secreto1",
		"newPassword":     "nueva456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := database.GetUserByID(db, userID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("nueva456")))
}

func TestChangePasswordRejectsBadInput(t *testing.T) {
	db := openTestDB(t)
	_, token := seedUserWithToken(t, db)

	tests := []struct {
		name string
		body map[string]string
		code int
	}{
		{
			name: "wrong current password",
			body: map[string]string{"currentPassword": "otraclave", "newPassword": "nueva456"},
			code: http.StatusUnauthorized,
		},
		{
			name: "short new password",
			body: map[string]string{"currentPassword": "secreto1", "newPassword": "123"},
			code: http.StatusBadRequest,
		},
		{
			name: "same password",
			body: map[string]string{"currentPassword": "secreto1", "newPassword": "secreto1"},
			code: http.StatusBadRequest,
		},
		{
			name: "missing current password",
			body: map[string]string{"newPassword": "nueva456"},
			code: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := putPassword(t, db, token, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
