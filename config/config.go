package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the storefront API.
type Config struct {
	Port   string
	AppEnv string

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTExpire string // Go duration string, e.g. "168h"

	AdminSecret        string
	DefaultCountryCode string

	UploadsDir string
	TempDir    string

	// Email transport selection: mailtrap | ethereal | brevo | sendgrid | gmail
	EmailService string
	EmailFrom    string
	MailtrapUser string
	MailtrapPass string
	EtherealUser string
	EtherealPass string
	BrevoUser    string
	BrevoAPIKey  string
	SendgridKey  string
	GmailUser    string
	GmailPass    string

	// Upload storage backend: "" (auto) | disk | gridfs | s3
	StorageBackend string
	AWSRegion      string
	AWSEndpoint    string
	AWSAccessKey   string
	AWSSecretKey   string
	S3Bucket       string
	S3Prefix       string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present, matching local development setups.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		AppEnv:             getEnv("APP_ENV", "development"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "website_db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpire:          getEnv("JWT_EXPIRE", "168h"),
		AdminSecret:        getEnv("ADMIN_SECRET", "admin123"),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "91"),
		UploadsDir:         getEnv("UPLOADS_DIR", "uploads"),
		TempDir:            getEnv("TEMP_DIR", "temp"),
		EmailService:       getEnv("EMAIL_SERVICE", "mailtrap"),
		EmailFrom:          getEnv("EMAIL_FROM", "store@example.com"),
		MailtrapUser:       os.Getenv("MAILTRAP_USER"),
		MailtrapPass:       os.Getenv("MAILTRAP_PASS"),
		EtherealUser:       os.Getenv("ETHEREAL_USER"),
		EtherealPass:       os.Getenv("ETHEREAL_PASS"),
		BrevoUser:          os.Getenv("BREVO_USER"),
		BrevoAPIKey:        os.Getenv("BREVO_API_KEY"),
		SendgridKey:        os.Getenv("SENDGRID_API_KEY"),
		GmailUser:          os.Getenv("EMAIL_USER"),
		GmailPass:          os.Getenv("EMAIL_PASSWORD"),
		StorageBackend:     os.Getenv("STORAGE_BACKEND"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),
		AWSAccessKey:       os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:       os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:           os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:           getEnv("AWS_S3_PREFIX", "products/"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
