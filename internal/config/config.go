package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the minimum accepted size of JWT_SECRET in bytes
const MinJWTSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Session tokens
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	// Server
	Port         string
	CORSOrigins  []string
	Env          string
	APIRateLimit int // requests per minute per API token

	// S3 document storage
	S3 S3Config

	// PDF rendering
	PDF PDFConfig
}

// S3Config holds AWS S3 configuration. An empty Bucket disables document archiving.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
	URLExpiry       time.Duration
}

// Enabled reports whether generated PDFs should be archived in S3
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// PDFConfig holds the business identity printed on every budget document
type PDFConfig struct {
	BrandName    string
	TaxID        string
	Address      string
	City         string
	Phone        string
	Email        string
	LogoPath     string
	ValidityDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	tokenTTL, err := getDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	urlExpiry, err := getDuration("PDF_URL_EXPIRY", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getInt("API_RATE_LIMIT", 100)
	if err != nil {
		return nil, err
	}
	validityDays, err := getInt("PDF_VALIDITY_DAYS", 15)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "orcamentos-api"),
		JWTAudience:  getEnv("JWT_AUDIENCE", "orcamentos-web"),
		TokenTTL:     tokenTTL,
		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Env:          getEnv("ENV", "development"),
		APIRateLimit: rateLimit,
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
			URLExpiry:       urlExpiry,
		},
		PDF: PDFConfig{
			BrandName:    getEnv("BRAND_NAME", "JH Serviços"),
			TaxID:        getEnv("BRAND_TAX_ID", "26.850.931/0001-72"),
			Address:      getEnv("BRAND_ADDRESS", "Rua Doutor Fritz Martin, 225"),
			City:         getEnv("BRAND_CITY", "Vila Cruzeiro - São Paulo"),
			Phone:        getEnv("BRAND_PHONE", "(11) 95224-9455"),
			Email:        getEnv("BRAND_EMAIL", "jh-servicos@hotmail.com"),
			LogoPath:     getEnv("BRAND_LOGO_PATH", ""),
			ValidityDays: validityDays,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.PDF.ValidityDays <= 0 {
		return fmt.Errorf("PDF_VALIDITY_DAYS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
