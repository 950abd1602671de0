package register

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/loader"
	"github.com/JTTomasCH/Logicoders/mailer"
)

type fakeMailer struct {
	sent []mailer.Message
	fail bool
}

func (f *fakeMailer) Send(msg mailer.Message) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	config.SetConfig(config.Config{})
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func registerBody() map[string]string {
	return map[string]string{
		"name":     "Ana Prueba",
		"email":    "Ana@Example.com",
		"username": "anaprueba",
		"password": "secreto1",
	}
}

func TestRegisterCreatesPendingAndMails(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}

	rec := postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Email stored normalized, account not active yet.
	pend, err := database.GetPendingByEmail(db, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, pend)
	assert.Equal(t, "anaprueba", pend.Username)
	assert.NotEmpty(t, pend.Token)

	user, err := database.GetUserByEmail(db, "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "ana@example.com", m.sent[0].To)
	assert.Contains(t, m.sent[0].HTML, pend.Token)
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}

	tests := []struct {
		name   string
		mutate func(m map[string]string)
	}{
		{"short name", func(b map[string]string) { b["name"] = "A" }},
		{"bad email", func(b map[string]string) { b["email"] = "not-an-email" }},
		{"bad username", func(b map[string]string) { b["username"] = "a!" }},
		{"short password", func(b map[string]string) { b["password"] = "12345" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := registerBody()
			tt.mutate(body)
			rec := postJSON(t, RegisterHandler(db, m), "/api/register", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, m.sent)
}

func TestRegisterConflicts(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}

	rec := postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Second attempt while the first is still pending.
	rec = postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Confirm, then the conflict comes from the active account.
	pend, err := database.GetPendingByEmail(db, "ana@example.com")
	require.NoError(t, err)
	confirmReq := httptest.NewRequest(http.MethodGet, "/api/confirm?token="+pend.Token, nil)
	confirmRec := httptest.NewRecorder()
	ConfirmHandler(db)(confirmRec, confirmReq)
	require.Equal(t, http.StatusFound, confirmRec.Code)

	rec = postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMailFailure(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{fail: true}

	rec := postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestConfirmActivatesOnce(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}
	postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())

	pend, err := database.GetPendingByEmail(db, "ana@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/confirm?token="+pend.Token, nil)
	rec := httptest.NewRecorder()
	ConfirmHandler(db)(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login.html", rec.Header().Get("Location"))

	user, err := database.GetUserByEmail(db, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.RoleID)

	stillPending, err := database.GetPendingByEmail(db, "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, stillPending)

	// The token was consumed with the pending row.
	rec = httptest.NewRecorder()
	ConfirmHandler(db)(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmUnknownToken(t *testing.T) {
	db := openTestDB(t)
	req := httptest.NewRequest(http.MethodGet, "/api/confirm?token=deadbeef-0000", nil)
	rec := httptest.NewRecorder()
	ConfirmHandler(db)(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResend(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}
	postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())

	rec := postJSON(t, ResendHandler(db, m), "/api/resend", map[string]string{"email": "ana@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, m.sent, 2)

	rec = postJSON(t, ResendHandler(db, m), "/api/resend", map[string]string{"email": "nadie@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckEmail(t *testing.T) {
	db := openTestDB(t)
	m := &fakeMailer{}
	postJSON(t, RegisterHandler(db, m), "/api/register", registerBody())

	pend, err := database.GetPendingByEmail(db, "ana@example.com")
	require.NoError(t, err)
	confirmReq := httptest.NewRequest(http.MethodGet, "/api/confirm?token="+pend.Token, nil)
	ConfirmHandler(db)(httptest.NewRecorder(), confirmReq)

	req := httptest.NewRequest(http.MethodGet, "/api/check-email?email=ana@example.com", nil)
	rec := httptest.NewRecorder()
	CheckEmailHandler(db)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["available"])

	req = httptest.NewRequest(http.MethodGet, "/api/check-email?email=libre@example.com", nil)
	rec = httptest.NewRecorder()
	CheckEmailHandler(db)(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["available"])
}
