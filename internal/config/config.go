package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=propmgmt port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort    string
	Environment string
	LogLevel    string
	CORSOrigins string

	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string
	DBMaxIdleConns int
	DBMaxOpenConns int
	DBConnLifetime time.Duration
	DBLogLevel     string

	JWTSecret  string
	TokenTTL   time.Duration
	AuthCookie string
	LoginPath  string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] could not read .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Environment:    getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		DatabaseDriver: getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		DBConnLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		AuthCookie:     getEnv("AUTH_COOKIE", "access_token"),
		LoginPath:      getEnv("LOGIN_PATH", "/login"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres DSN for production.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value.")
	}

	return cfg, nil
}

// Validate checks the settings the server refuses to start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DatabaseDriver)
	}
	return nil
}

// Fields returns the non-secret settings for startup logging.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Environment),
		zap.String("http_port", c.HTTPPort),
		zap.String("db_driver", c.DatabaseDriver),
		zap.String("log_level", c.LogLevel),
		zap.Duration("token_ttl", c.TokenTTL),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return def
}
