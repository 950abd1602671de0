package password

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/mailer"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// resetTTL is how long a reset link stays valid.
const resetTTL = time.Hour

// ForgotHandler starts password recovery: invalidates older tokens, stores
// a fresh one and mails the link. An unknown email is reported explicitly.
func ForgotHandler(db *sqlx.DB, m mailer.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !emailRe.MatchString(email) {
			writeJSONError(w, "Correo inválido.", http.StatusBadRequest)
			return
		}

		user, err := database.GetUserByEmail(db, email)
		if err != nil {
			log.Printf("ForgotHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if user == nil {
			writeJSONError(w, "No existe una cuenta asociada a ese correo.", http.StatusNotFound)
			return
		}

		if err := database.InvalidateOpenResets(db, user.ID); err != nil {
			log.Printf("ForgotHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		token := uuid.NewString()
		if err := database.CreatePasswordReset(db, user.ID, user.Email, token, time.Now().Add(resetTTL)); err != nil {
			log.Printf("ForgotHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		resetURL := fmt.Sprintf("%s/reset_form.html?token=%s", config.GetConfig().BaseURL, token)
		if err := sendResetMail(m, user.Email, user.Name, resetURL); err != nil {
			log.Printf("WARN: ForgotHandler mail: %v", err)
			// DEV fallback: the link still works even when SMTP does not.
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"message":  "No se pudo enviar el correo. Usa este enlace para continuar (solo DEV).",
				"resetUrl": resetURL,
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Correo enviado para cambiar contraseña."})
	}
}

// ValidateHandler tells the reset form whether its token is still usable.
func ValidateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		if token == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{"valid": false, "message": "Token faltante."})
			return
		}

		row, err := database.GetValidReset(db, token)
		if err != nil {
			log.Printf("ValidateHandler: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{"valid": false, "message": "Error en el servidor."})
			return
		}
		if row == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"valid": false, "message": "Token inválido o expirado."})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"valid": true, "email": row.Email})
	}
}

// ResetHandler consumes a valid token and stores the new password hash.
// Both writes happen in one transaction so the token cannot be reused
// against a half-applied change.
func ResetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		token := strings.TrimSpace(req.Token)
		if token == "" {
			writeJSONError(w, "Token faltante.", http.StatusBadRequest)
			return
		}
		if len(req.Password) < 6 {
			writeJSONError(w, "La contraseña debe tener al menos 6 caracteres.", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		row, err := database.GetValidResetInTx(tx, token)
		if err != nil {
			log.Printf("ResetHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if row == nil {
			writeJSONError(w, "Token inválido o expirado.", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			log.Printf("ResetHandler bcrypt: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		if err := database.UpdateUserPasswordInTx(tx, row.UserID, string(hash)); err != nil {
			log.Printf("ResetHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if err := database.MarkResetUsedInTx(tx, row.ID); err != nil {
			log.Printf("ResetHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ResetHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Contraseña actualizada. Ahora puedes iniciar sesión."})
	}
}

func sendResetMail(m mailer.Mailer, to, name, resetURL string) error {
	html := fmt.Sprintf(`
		<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px">
			<p>Hola %s,</p>
			<p>Recibimos una solicitud para restablecer tu contraseña.</p>
			<p style="text-align:center;margin:24px 0">
				<a href="%s"
					 style="background:#007bff;color:#fff;padding:12px 20px;border-radius:6px;text-decoration:none;display:inline-block">
					Restablecer contraseña
				</a>
			</p>
			<p>Este enlace vence en 1 hora. Si no fuiste tú, ignora este mensaje.</p>
		</div>`, name, resetURL)

	return m.Send(mailer.Message{
		To:      to,
		Subject: "Restablecer contraseña - LogiCoders",
		HTML:    html,
	})
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
