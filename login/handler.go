package login

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/JTTomasCH/Logicoders/auth"
	"github.com/JTTomasCH/Logicoders/database"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// nextURLForRole maps the account role to its landing page.
func nextURLForRole(role int) string {
	switch role {
	case 1:
		return "/panelremitente.html"
	case 4:
		return "/administrador.html"
	default:
		return "/"
	}
}

// LoginHandler validates credentials and issues a session token. A pending
// (unconfirmed) registration is reported distinctly from bad credentials.
func LoginHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeJSONError(w, "Faltan credenciales.", http.StatusBadRequest)
			return
		}

		emailNorm := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := database.GetUserByEmail(db, emailNorm)
		if err != nil {
			log.Printf("LoginHandler: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if user == nil {
			pending, err := database.PendingUserExistsByEmail(db, emailNorm)
			if err != nil {
				log.Printf("LoginHandler: %v", err)
				writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
				return
			}
			if pending {
				writeJSONError(w, "Debes confirmar tu cuenta desde el correo.", http.StatusForbidden)
				return
			}
			writeJSONError(w, "Correo o contraseña inválidos.", http.StatusUnauthorized)
			return
		}

		// A stored value that is not a bcrypt hash can never match.
		if !strings.HasPrefix(user.Password, "$2") {
			writeJSONError(w, "Correo o contraseña inválidos.", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			writeJSONError(w, "Correo o contraseña inválidos.", http.StatusUnauthorized)
			return
		}

		token, err := auth.SignToken(user.ID, user.Email, user.RoleID)
		if err != nil {
			log.Printf("LoginHandler sign: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Login exitoso.",
			"token":   token,
			"user": map[string]interface{}{
				"id":      user.ID,
				"name":    user.Name,
				"email":   user.Email,
				"role_id": user.RoleID,
			},
			"nextUrl": nextURLForRole(user.RoleID),
		})
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
