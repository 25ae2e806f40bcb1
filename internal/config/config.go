package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	AdminPassHash string // bcrypt hash gating the administrative reset
	NominatimURL  string
	StaticMapURL  string
}

func Load() Config {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "realtydesk.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./realtydesk.log"
	}
	adminHash := os.Getenv("ADMIN_PASS_HASH")
	nominatim := os.Getenv("NOMINATIM_URL")
	if nominatim == "" {
		nominatim = "https://nominatim.openstreetmap.org"
	}
	staticMap := os.Getenv("STATICMAP_URL")
	if staticMap == "" {
		staticMap = "https://staticmap.openstreetmap.de/staticmap.php"
	}

	cfg := Config{
		Port: port, DBDSN: dsn, LogFile: logFile,
		AdminPassHash: adminHash,
		NominatimURL:  nominatim, StaticMapURL: staticMap,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}
