package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	Backup   BackupConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

// FirebaseConfig carries the provider credentials opaquely; the service
// never interprets them beyond handing them to the Firebase clients. When
// CredentialsPath or WebAPIKey is empty the service runs disconnected with
// the in-memory document store and the demo login.
type FirebaseConfig struct {
	CredentialsPath string
	WebAPIKey       string
	ProjectID       string
	StorageBucket   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BackupConfig configures the nightly S3 export. Endpoint is set when the
// bucket lives on MinIO instead of AWS.
type BackupConfig struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Backup: BackupConfig{
			Region:    getEnv("BACKUP_S3_REGION", "ap-northeast-1"),
			Bucket:    getEnv("BACKUP_S3_BUCKET", ""),
			Endpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
			AccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Firebase is all-or-nothing: a credentials file without the web API key
	// cannot serve logins, and vice versa.
	if (c.Firebase.CredentialsPath == "") != (c.Firebase.WebAPIKey == "") {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH and FIREBASE_WEB_API_KEY must be set together")
	}

	return nil
}

// FirebaseEnabled reports whether the service should talk to a live Firebase
// project or run disconnected.
func (c *Config) FirebaseEnabled() bool {
	return c.Firebase.CredentialsPath != "" && c.Firebase.WebAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
