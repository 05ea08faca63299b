package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string
	BaseURL  string

	// WhatsApp number the checkout hand-off message is addressed to,
	// in wa.me form (country code, digits only).
	WhatsAppNumber string

	SendGridKey string
	MailFrom    string

	// Optional allow-list bootstrap; no admin is created when unset.
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DBDSN:          getEnv("DB_DSN", "threadline.db"),
		MediaDir:       getEnv("MEDIA_DIR", "./web/media"),
		LogFile:        getEnv("LOG_FILE", "./threadline.log"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "1234567890"),
		SendGridKey:    os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@threadline.test"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminName:      getEnv("ADMIN_NAME", "Admin"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
