package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// AppConfig carries every knob the process reads from the environment.
// Loaded once in main and passed down; nothing else touches os.Getenv.
type AppConfig struct {
	Port      string
	DBBackend string

	// Google Sheets backend
	SpreadsheetID   string
	GoogleCredsFile string

	// Supabase backend
	SupabaseURL string
	SupabaseKey string

	FounderEmail string
	JWTSecret    string

	// OAuth sign-in
	GoogleClientID       string
	GoogleClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string
	OAuthRedirectURL     string

	// Photo uploads
	AWSRegion string
	S3Bucket  string
}

// Load reads configuration from .env (when present) and the environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	return AppConfig{
		Port:      getEnv("PORT", "8080"),
		DBBackend: getEnv("DB_BACKEND", "gsheets"),

		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		GoogleCredsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "service_account.json"),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_KEY", ""),

		FounderEmail: getEnv("FOUNDER_EMAIL", "founder@tingles.com"),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		LinkedInClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedInClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
		OAuthRedirectURL:     getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080"),

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  getEnv("S3_BUCKET_NAME", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
