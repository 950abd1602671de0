package account

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

// MeHandler returns the authenticated user's own row.
func MeHandler(db *sqlx.DB) http.HandlerFunc {
	return auth.RequireAuth(func(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
		userID, err := claims.UserID()
		if err != nil {
			writeJSONError(w, "Token inválido o expirado.", http.StatusUnauthorized)
			return
		}

		user, err := database.GetUserByID(db, userID)
		if err != nil {
			log.Printf("GET /api/me: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if user == nil {
			writeJSONError(w, "Usuario no encontrado.", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{
				"id":      user.ID,
				"name":    user.Name,
				"email":   user.Email,
				"role_id": user.RoleID,
			},
		})
	})
}

// ChangePasswordHandler updates the password of the authenticated user
// after verifying the current one.
func ChangePasswordHandler(db *sqlx.DB) http.HandlerFunc {
	return auth.RequireAuth(func(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
		if r.Method != http.MethodPut {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			writeJSONError(w, "Token inválido o expirado.", http.StatusUnauthorized)
			return
		}

		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}
		if req.CurrentPassword == "" {
			writeJSONError(w, "Debes indicar tu contraseña actual.", http.StatusBadRequest)
			return
		}
		if len(req.NewPassword) < 6 {
			writeJSONError(w, "La nueva contraseña debe tener al menos 6 caracteres.", http.StatusBadRequest)
			return
		}
		if req.CurrentPassword == req.NewPassword {
			writeJSONError(w, "La nueva contraseña debe ser diferente a la actual.", http.StatusBadRequest)
			return
		}

		user, err := database.GetUserByID(db, userID)
		if err != nil {
			log.Printf("PUT /api/me/password: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if user == nil || user.Password == "" {
			writeJSONError(w, "Usuario no encontrado.", http.StatusNotFound)
			return
		}

		if !strings.HasPrefix(user.Password, "$2") ||
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			writeJSONError(w, "La contraseña actual es incorrecta.", http.StatusUnauthorized)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 10)
		if err != nil {
			log.Printf("PUT /api/me/password bcrypt: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}
		if err := database.UpdateUserPassword(db, userID, string(hash)); err != nil {
			log.Printf("PUT /api/me/password: %v", err)
			writeJSONError(w, "Error en el servidor.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Contraseña actualizada correctamente."})
	})
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
