package config

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"
)

type Config struct {
	Port        string `json:"port"`
	BaseURL     string `json:"baseUrl"`
	DBPath      string `json:"dbPath"`
	StaticDir   string `json:"staticDir"`
	CitiesPath  string `json:"citiesPath"`
	SMTPHost    string `json:"smtpHost"`
	SMTPPort    int    `json:"smtpPort"`
	SMTPUser    string `json:"smtpUser"`
	SMTPPass    string `json:"-"`
	FromEmail   string `json:"fromEmail"`
	JWTSecret   string `json:"-"`
	TokenHours  int    `json:"tokenHours"`
	NotifyQueue int    `json:"notifyQueue"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./logicoders_config.json"

func defaults() Config {
	return Config{
		Port:        ":3000",
		BaseURL:     "http://localhost:3000",
		DBPath:      "./logicoders.db",
		StaticDir:   "./public",
		CitiesPath:  "./data/ciudades.csv",
		SMTPPort:    587,
		FromEmail:   "no-reply@logicoders.local",
		JWTSecret:   "change_me",
		TokenHours:  2,
		NotifyQueue: 64,
	}
}

// LoadConfig reads the JSON config file, fills in defaults, and applies
// environment overrides for the secrets that never belong in the file.
func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	c := defaults()
	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		if err := json.Unmarshal(file, &c); err != nil {
			return Config{}, err
		}
	}

	applyDefaults(&c)
	applyEnv(&c)
	cfg = c
	return cfg, nil
}

func applyDefaults(c *Config) {
	d := defaults()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.StaticDir == "" {
		c.StaticDir = d.StaticDir
	}
	if c.CitiesPath == "" {
		c.CitiesPath = d.CitiesPath
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = d.SMTPPort
	}
	if c.FromEmail == "" {
		c.FromEmail = d.FromEmail
	}
	if c.JWTSecret == "" {
		c.JWTSecret = d.JWTSecret
	}
	if c.TokenHours == 0 {
		c.TokenHours = d.TokenHours
	}
	if c.NotifyQueue == 0 {
		c.NotifyQueue = d.NotifyQueue
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = ":" + v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = p
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		c.SMTPPass = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		c.FromEmail = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// SetConfig replaces the in-memory config without touching the file.
// Used by tests.
func SetConfig(c Config) {
	mu.Lock()
	defer mu.Unlock()
	applyDefaults(&c)
	cfg = c
}
