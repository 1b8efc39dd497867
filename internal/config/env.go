package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr    string
	GinMode    string
	JWTSecret  string
	OCRBaseURL string
	OCRAPIKey  string
	UploadsDir string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	uploads := strings.TrimSpace(os.Getenv("UPLOADS_DIR"))
	if uploads == "" {
		uploads = "uploads"
	}

	return Env{
		AppAddr:    appAddr,
		GinMode:    strings.TrimSpace(os.Getenv("GIN_MODE")),
		JWTSecret:  secret,
		OCRBaseURL: strings.TrimSpace(os.Getenv("OCR_API_URL")),
		OCRAPIKey:  strings.TrimSpace(os.Getenv("OCR_API_KEY")),
		UploadsDir: uploads,
	}
}
