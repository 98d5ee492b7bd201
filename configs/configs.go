package configs

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present. Real deployments provide env vars directly,
// so a missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// Env returns the value of key or fallback when unset/empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BaseURL is the public base used when composing invite links.
func BaseURL() string {
	return Env("APP_BASE_URL", "http://localhost:3000")
}

// PDFServiceURL points at the external report renderer.
func PDFServiceURL() string {
	return Env("PDF_SERVICE_URL", "http://localhost:5000/generate-pdf")
}

// UploadDir is where payment receipts are stored.
func UploadDir() string {
	return Env("UPLOAD_DIR", "./uploads")
}
