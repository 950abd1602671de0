package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/account"
	"github.com/JTTomasCH/Logicoders/cities"
	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/login"
	"github.com/JTTomasCH/Logicoders/mailer"
	"github.com/JTTomasCH/Logicoders/notify"
	"github.com/JTTomasCH/Logicoders/password"
	"github.com/JTTomasCH/Logicoders/payment"
	"github.com/JTTomasCH/Logicoders/pdf"
	"github.com/JTTomasCH/Logicoders/register"
	"github.com/JTTomasCH/Logicoders/shipment"
	"github.com/JTTomasCH/Logicoders/track"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, cityIdx *cities.Index, mail mailer.Mailer, dispatcher *notify.Dispatcher) {
	cfg := config.GetConfig()

	mux.HandleFunc("/api/register", register.RegisterHandler(dbConn, mail))
	mux.HandleFunc("/api/confirm", register.ConfirmHandler(dbConn))
	mux.HandleFunc("/api/resend", register.ResendHandler(dbConn, mail))
	mux.HandleFunc("/api/check-email", register.CheckEmailHandler(dbConn))

	mux.HandleFunc("/api/login", login.LoginHandler(dbConn))
	mux.HandleFunc("/api/me", account.MeHandler(dbConn))
	mux.HandleFunc("/api/me/password", account.ChangePasswordHandler(dbConn))

	mux.HandleFunc("/api/password/forgot", password.ForgotHandler(dbConn, mail))
	mux.HandleFunc("/api/password/validate", password.ValidateHandler(dbConn))
	mux.HandleFunc("/api/password/reset", password.ResetHandler(dbConn))

	mux.HandleFunc("/api/ciudades", cities.ListHandler(cityIdx))
	mux.HandleFunc("/api/ciudades/buscar", cities.SearchHandler(cityIdx))
	mux.HandleFunc("/api/ciudades/geo", cities.GeoHandler(cityIdx))

	mux.HandleFunc("/api/recolecciones", shipment.CreateHandler(dbConn, dispatcher))
	mux.HandleFunc("/api/recolecciones/", shipment.ReceiptRouter(dbConn, mail, pdf.FromHTML, cfg.BaseURL))

	mux.HandleFunc("/api/pagos/crear", payment.CreateHandler(dbConn))

	mux.HandleFunc("/api/track/ejemplos", track.GetEjemplosHandler(dbConn))
	mux.HandleFunc("/api/track/", track.GetByGuiaHandler(dbConn))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}
