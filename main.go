package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JTTomasCH/Logicoders/cities"
	"github.com/JTTomasCH/Logicoders/config"
	"github.com/JTTomasCH/Logicoders/loader"
	"github.com/JTTomasCH/Logicoders/mailer"
	"github.com/JTTomasCH/Logicoders/notify"
	"github.com/JTTomasCH/Logicoders/pdf"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found, using environment as-is.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Println("Connecting to database...")
	// _txlock=immediate makes every write transaction take the write lock
	// at BEGIN, which is what serializes tracking number allocation.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", cfg.DBPath)
	dbConn, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := loader.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	cityIdx, err := cities.Load(cfg.CitiesPath)
	if err != nil {
		log.Fatalf("Failed to load cities file %s: %v", cfg.CitiesPath, err)
	}
	log.Printf("Cities master loaded (%d entries).", len(cityIdx.All()))

	mail := mailer.NewSMTP(cfg)
	dispatcher := notify.NewDispatcher(dbConn, mail, pdf.FromHTML, cfg.BaseURL, cfg.NotifyQueue)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	SetupRoutes(mux, dbConn, cityIdx, mail, dispatcher)

	log.Printf("Starting server on %s", cfg.BaseURL)
	if err := http.ListenAndServe(cfg.Port, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}
