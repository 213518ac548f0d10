package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	BaseURL  string
	MediaDir string
	LogFile  string

	SMTPHost      string
	SMTPPort      string
	EmailFrom     string
	EmailPassword string

	PaymongoPublicKey string
	PaymongoSecretKey string
	PaymongoBaseURL   string

	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string

	RecaptchaSiteKey string
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:     env("PORT", "8080"),
		DBDSN:    env("DB_DSN", "growlokal.db"),
		BaseURL:  env("BASE_URL", "http://localhost:8080"),
		MediaDir: env("MEDIA_DIR", "./web/media"),
		LogFile:  env("LOG_FILE", "./growlokal.log"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      env("SMTP_PORT", "587"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),

		PaymongoPublicKey: os.Getenv("PAYMONGO_PUBLIC_KEY"),
		PaymongoSecretKey: os.Getenv("PAYMONGO_SECRET_KEY"),
		PaymongoBaseURL:   env("PAYMONGO_BASE_URL", "https://api.paymongo.com"),

		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),

		RecaptchaSiteKey: os.Getenv("RECAPTCHA_SITE_KEY"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s BASE_URL=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.BaseURL, cfg.MediaDir, cfg.LogFile)
	return cfg
}
