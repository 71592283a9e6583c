package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAccessSecret  = "access-secret"
	defaultRefreshSecret = "refresh-secret"
)

type Config struct {
	Env        string
	ServerPort string
	LogLevel   string

	DatabaseURL         string
	DBMaxConns          int
	DBMinConns          int
	DBMaxConnIdleTime   time.Duration
	ApplySchemaOnStart  bool
	SchemaPath          string
	RedisURL            string
	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	CORSAllowedOrigins  []string
	CORSAllowCreds      bool
	SendGridAPIKey      string
	SendGridSenderEmail string
	SendGridSenderName  string

	TLS TLSSettings
}

// TLSSettings holds environment-driven TLS configuration.
type TLSSettings struct {
	EnableTLS       bool
	CertPath        string
	KeyPath         string
	AllowSelfSigned bool
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables")
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	}
	if env == "" {
		env = "development"
	}

	cfg := Config{
		Env:                 env,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          getEnvAsInt("DB_MAX_CONNS", 10),
		DBMinConns:          getEnvAsInt("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		ApplySchemaOnStart:  !strings.EqualFold(os.Getenv("APPLY_SCHEMA_ON_START"), "false"),
		SchemaPath:          getEnv("SCHEMA_PATH", "pkg/db/schema.sql"),
		RedisURL:            os.Getenv("REDIS_URL"),
		AccessTokenSecret:   getEnv("ACCESS_TOKEN_SECRET", defaultAccessSecret),
		RefreshTokenSecret:  getEnv("REFRESH_TOKEN_SECRET", defaultRefreshSecret),
		AccessTokenExpiry:   getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry:  getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CORSAllowCreds:      strings.EqualFold(os.Getenv("CORS_ALLOW_CREDENTIALS"), "true"),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendGridSenderEmail: os.Getenv("SENDGRID_SENDER_EMAIL"),
		SendGridSenderName:  os.Getenv("SENDGRID_SENDER_NAME"),
		TLS: TLSSettings{
			EnableTLS:       strings.EqualFold(os.Getenv("ENABLE_TLS"), "true"),
			CertPath:        os.Getenv("TLS_CERT_PATH"),
			KeyPath:         os.Getenv("TLS_KEY_PATH"),
			AllowSelfSigned: !strings.EqualFold(os.Getenv("TLS_SELF_SIGNED"), "false"),
		},
	}

	// TLS is always on in production
	if cfg.IsProduction() {
		cfg.TLS.EnableTLS = true
	}

	cfg.ServerPort = os.Getenv("SERVER_PORT")
	if cfg.ServerPort == "" {
		if cfg.TLS.EnableTLS {
			cfg.ServerPort = "8443"
		} else {
			cfg.ServerPort = "8080"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that are unsafe or unusable for the selected environment.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}
	if c.IsProduction() {
		if c.AccessTokenSecret == defaultAccessSecret || c.RefreshTokenSecret == defaultRefreshSecret {
			return errors.New("token secrets must be set in production")
		}
		if c.TLS.CertPath == "" || c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
		logrus.Warnf("invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.Warnf("invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return duration
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
