package register

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/mailer"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_\-.]{3,30}$`)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a pending registration and mails the
// confirmation link. The account only becomes active through /api/confirm.
func RegisterHandler(db *sqlx.DB, m mailer.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if len(req.Name) < 2 {
			writeJSONError(w, "Nombre inválido.", http.StatusBadRequest)
			return
		}
		emailNorm := normalizeEmail(req.Email)
		if !emailRe.MatchString(emailNorm) {
			writeJSONError(w, "Correo inválido.", http.StatusBadRequest)
			return
		}
		if !usernameRe.MatchString(req.Username) {
			writeJSONError(w, "Usuario inválido (3-30 chars, letras/números/_-.)", http.StatusBadRequest)
			return
		}
		if len(req.Password) < 6 {
			writeJSONError(w, "La contraseña debe tener al menos 6 caracteres.", http.StatusBadRequest)
			return
		}

		active, err := database.ActiveUserExists(db, emailNorm, req.Username)
		if err != nil {
			log.Printf("RegisterHandler: %v", err)
			writeJSONError(w, "Error en el servidor al registrar.", http.StatusInternalServerError)
			return
		}
		if active {
			writeJSONError(w, "El correo o usuario ya existe (cuenta activa).", http.StatusConflict)
			return
		}

		pending, err := database.PendingUserExists(db, emailNorm, req.Username)
		if err != nil {
			log.Printf("RegisterHandler: %v", err)
			writeJSONError(w, "Error en el servidor al registrar.", http.StatusInternalServerError)
			return
		}
		if pending {
			writeJSONError(w, "Ya hay un registro pendiente para este correo/usuario. Revisa tu bandeja o solicita reenvío.", http.StatusConflict)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			log.Printf("RegisterHandler bcrypt: %v", err)
			writeJSONError(w, "Error en el servidor al registrar.", http.StatusInternalServerError)
			return
		}
		token := uuid.NewString()

		if err := database.CreatePendingUser(db, req.Name, emailNorm, req.Username, string(hash), token); err != nil {
			log.Printf("RegisterHandler: %v", err)
			writeJSONError(w, "Error en el servidor al registrar.", http.StatusInternalServerError)
			return
		}

		if err := sendConfirmMail(m, emailNorm, req.Name, token); err != nil {
			log.Printf("WARN: RegisterHandler mail: %v", err)
			writeJSONError(w, "No se pudo enviar el correo de confirmación. Verifica SMTP.", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "Registro creado. Revisa tu correo para confirmar."})
	}
}

// ConfirmHandler activates a pending registration from its mailed token.
// The token is single-use: the pending row is deleted in the same
// transaction that creates the account.
func ConfirmHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if len(token) < 8 {
			http.Error(w, "Token inválido.", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		pend, err := database.GetPendingByTokenInTx(tx, token)
		if err != nil {
			log.Printf("ConfirmHandler: %v", err)
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}
		if pend == nil {
			http.Error(w, "Token no encontrado o ya utilizado.", http.StatusNotFound)
			return
		}

		exists, err := database.ActiveUserExistsInTx(tx, pend.Email, pend.Username)
		if err != nil {
			log.Printf("ConfirmHandler: %v", err)
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}
		if exists {
			// Double confirmation: drop the stale pending row and report
			// the account as already active.
			if err := database.DeletePendingInTx(tx, pend.ID); err == nil {
				tx.Commit()
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "La cuenta ya estaba activada. Puedes iniciar sesión.")
			return
		}

		if err := database.CreateUserFromPendingInTx(tx, pend); err != nil {
			log.Printf("ConfirmHandler: %v", err)
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}
		if err := database.DeletePendingInTx(tx, pend.ID); err != nil {
			log.Printf("ConfirmHandler: %v", err)
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ConfirmHandler: %v", err)
			http.Error(w, "Error al confirmar la cuenta.", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/login.html", http.StatusFound)
	}
}

// ResendHandler re-sends the confirmation link of a pending registration.
func ResendHandler(db *sqlx.DB, m mailer.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		email := normalizeEmail(req.Email)
		if !emailRe.MatchString(email) {
			writeJSONError(w, "Correo inválido.", http.StatusBadRequest)
			return
		}

		pend, err := database.GetPendingByEmail(db, email)
		if err != nil {
			log.Printf("ResendHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if pend == nil {
			writeJSONError(w, "No hay registro pendiente con ese correo. Si ya confirmaste, inicia sesión.", http.StatusNotFound)
			return
		}

		confirmURL := fmt.Sprintf("%s/api/confirm?token=%s", config.GetConfig().BaseURL, pend.Token)
		msg := mailer.Message{
			To:      email,
			Subject: "Reenvío: confirma tu cuenta",
			HTML:    fmt.Sprintf(`<p>Hola %s, aquí tienes de nuevo tu enlace:</p><p><a href="%s">%s</a></p>`, pend.Name, confirmURL, confirmURL),
		}
		if err := m.Send(msg); err != nil {
			log.Printf("WARN: ResendHandler mail: %v", err)
			writeJSONError(w, "No se pudo enviar el correo de confirmación. Verifica SMTP.", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Correo de confirmación reenviado."})
	}
}

// CheckEmailHandler is the availability probe used by the signup form.
func CheckEmailHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := normalizeEmail(r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "application/json")
		if !emailRe.MatchString(email) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{"available": false, "message": "Correo inválido."})
			return
		}

		user, err := database.GetUserByEmail(db, email)
		if err != nil {
			log.Printf("CheckEmailHandler: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{"available": false, "message": "Error en servidor."})
			return
		}
		if user != nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"available": false, "message": "Este correo ya está registrado."})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"available": true})
	}
}

func sendConfirmMail(m mailer.Mailer, to, name, token string) error {
	confirmURL := fmt.Sprintf("%s/api/confirm?token=%s", config.GetConfig().BaseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px">
			<h2>¡Hola %s!</h2>
			<p>Gracias por registrarte en <b>LogiCoders</b>.</p>
			<p>Para activar tu cuenta, haz clic:</p>
			<p style="text-align:center;margin:24px 0">
				<a href="%s"
					 style="background:#007bff;color:#fff;padding:12px 20px;border-radius:6px;text-decoration:none;display:inline-block">
					 Confirmar cuenta
				</a>
			</p>
		</div>`, name, confirmURL)

	return m.Send(mailer.Message{
		To:      to,
		Subject: "Confirma tu cuenta en LogiCoders",
		HTML:    html,
	})
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
