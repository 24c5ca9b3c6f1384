package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Invoice delete policies. Cascade removes attached files (rows and remote
// blobs) together with the invoice; restrict refuses to delete an invoice
// that still has files.
const (
	DeletePolicyCascade  = "cascade"
	DeletePolicyRestrict = "restrict"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Database configuration
	DatabaseURL string

	// Object storage configuration (S3-compatible)
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string

	// Behavior when deleting an invoice that still has files attached
	InvoiceDeletePolicy string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 15)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		// Object storage configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "invoices"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),

		InvoiceDeletePolicy: strings.ToLower(getEnvString("INVOICE_DELETE_POLICY", DeletePolicyCascade)),
	}

	if config.InvoiceDeletePolicy != DeletePolicyCascade && config.InvoiceDeletePolicy != DeletePolicyRestrict {
		return nil, fmt.Errorf("invalid INVOICE_DELETE_POLICY %q: must be %q or %q",
			config.InvoiceDeletePolicy, DeletePolicyCascade, DeletePolicyRestrict)
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.DatabaseURL == "" {
		log.Println("Warning: No POSTGRES_DB_URL provided. Database connection will fail.")
	}

	if config.S3Endpoint == "" {
		log.Println("Warning: No S3 endpoint provided. File uploads will fail.")
	}

	if config.S3AccessKeyID == "" || config.S3AccessKeySecret == "" {
		log.Println("Warning: Incomplete S3 credentials provided. File uploads will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
