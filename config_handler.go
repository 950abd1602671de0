package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/JTTomasCH/Logicoders/config"
)

// Helper: return an error as JSON.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetConfigHandler returns the current settings. Secret fields carry
// json:"-" so they never leave the process.
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

// SaveConfigHandler persists new settings.
func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			writeJSONError(w, "Cuerpo de la solicitud inválido.", http.StatusBadRequest)
			return
		}

		if err := validateStaticDir(newCfg.StaticDir); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if newCfg.Port != "" && !strings.HasPrefix(newCfg.Port, ":") {
			writeJSONError(w, "El puerto debe tener la forma \":3000\".", http.StatusBadRequest)
			return
		}

		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("Error saving config: %v", err)
			writeJSONError(w, "No se pudo guardar la configuración.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Configuración guardada."})
	}
}

func validateStaticDir(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("la carpeta no existe: " + path)
		}
		log.Printf("Error checking static dir: %v", err)
		return errors.New("no se pudo verificar la carpeta de archivos estáticos")
	}
	if !info.IsDir() {
		return errors.New("la ruta no es una carpeta: " + path)
	}
	return nil
}
