package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/loader"
	"github.com/JTTomasCH/Logicoders/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

func seedShipment(t *testing.T, db *sqlx.DB, paymentMethod string) int {
	t.Helper()

	var userID int
	require.NoError(t, db.Get(&userID, `
		INSERT INTO usuarios (name, email, username, password, role_id)
		VALUES ('Ana Prueba', 'ana@example.com', 'anaprueba', '$2a$10$x', 1)
		RETURNING id`))

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	remID, err := database.UpsertRemitenteInTx(tx, model.Persona{
		Nombre: "Ana Prueba", DocNumero: "1020304050", Telefono: "3001234567",
		Direccion: "Calle 10 # 5-51", CiudadOrigen: "Medellín - Antioquia",
	}, userID)
	require.NoError(t, err)
	destID, err := database.UpsertDestinatarioInTx(tx, model.Persona{
		Nombre: "Carlos Díaz", DocNumero: "900123456", Telefono: "3109876543",
		Direccion: "Cra 7 # 45-10", CiudadDest: "Bogotá - Bogotá D.C.",
	})
	require.NoError(t, err)
	guia, err := database.NextGuiaInTx(tx, time.Now())
	require.NoError(t, err)

	recID, err := database.InsertRecoleccionInTx(tx, &model.Recoleccion{
		UserID: userID, RemitenteID: remID, DestinatarioID: destID,
		ProductType: "Paquetes", DeliveryTime: "Normal", TransportType: "Terrestre",
		PaymentMethod: paymentMethod,
		CityFromLabel: "Medellín - Antioquia", CityToLabel: "Bogotá - Bogotá D.C.",
		PickupDate: "2025-04-01", PickupHour: "09:30:00",
		DistanceKm: 240, PriceCop: 35000, NumeroGuia: guia,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return recID
}

func validBody(recID int) map[string]interface{} {
	return map[string]interface{}{
		"recoleccion_id": recID,
		"method":         "PSE",
		"payer_name":     "Ana Prueba",
		"payer_doc_type": "CC",
		"payer_doc":      "1020304050",
		"payer_email":    "ana@example.com",
		"bank_name":      "Bancolombia",
		"amount_cop":     35000,
		"reference":      "PSE-REF-001",
	}
}

func postPago(t *testing.T, db *sqlx.DB, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/pagos/crear", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	CreateHandler(db)(rec, req)
	return rec
}

func TestCreatePago(t *testing.T) {
	db := openTestDB(t)
	recID := seedShipment(t, db, "En línea")

	rec := postPago(t, db, validBody(recID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		OK        bool   `json:"ok"`
		PagoID    int    `json:"pago_id"`
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "PSE-REF-001", resp.Reference)

	pago, err := database.GetLatestPagoByRecoleccion(db, recID)
	require.NoError(t, err)
	require.NotNil(t, pago)
	assert.Equal(t, resp.PagoID, pago.ID)
	assert.Equal(t, "CREATED", pago.Status)
	assert.Equal(t, "Bancolombia", pago.BankName)
}

func TestCreatePagoRejectsOfflineShipment(t *testing.T) {
	db := openTestDB(t)
	recID := seedShipment(t, db, "Contado")

	rec := postPago(t, db, validBody(recID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "La recolección no admite pago en línea", resp["message"])
}

func TestCreatePagoUnknownShipment(t *testing.T) {
	db := openTestDB(t)
	rec := postPago(t, db, validBody(9999))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePagoValidation(t *testing.T) {
	db := openTestDB(t)
	recID := seedShipment(t, db, "En línea")

	tests := []struct {
		name   string
		mutate func(m map[string]interface{})
		field  string
	}{
		{"bad method", func(b map[string]interface{}) { b["method"] = "Tarjeta" }, "method"},
		{"bad doc type", func(b map[string]interface{}) { b["payer_doc_type"] = "XX" }, "payer_doc_type"},
		{"bad document", func(b map[string]interface{}) { b["payer_doc"] = "12ab" }, "payer_doc"},
		{"bad email", func(b map[string]interface{}) { b["payer_email"] = "nope" }, "payer_email"},
		{"short reference", func(b map[string]interface{}) { b["reference"] = "abc" }, "reference"},
		{"negative amount", func(b map[string]interface{}) { b["amount_cop"] = -5 }, "amount_cop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody(recID)
			tt.mutate(body)
			rec := postPago(t, db, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp["message"], tt.field)
		})
	}

	pago, err := database.GetLatestPagoByRecoleccion(db, recID)
	require.NoError(t, err)
	assert.Nil(t, pago)
}
