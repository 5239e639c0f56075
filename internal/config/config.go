// Package config provides centralized configuration management for the service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// DefaultDatasetURL is the public NACE-BEL 2025 export, used when DATASET_URL is unset.
const DefaultDatasetURL = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/NACEBEL_2025.xlsx%20-%20NACEBEL2025-Wz64kIuDaBa2WaeY8tPWRHpPyPHlTq.csv"

// Dataset source kinds accepted by DATASET_SOURCE.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	CORS     CORSConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// ExportMaxConcurrent caps simultaneous CSV downloads (default: 4)
	ExportMaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// ExportMaxWait is how long a download waits for a free slot before 503 (default: 5s)
	ExportMaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"5s"`
}

// DatasetConfig selects where the code list is loaded from and how long a
// loaded copy stays fresh.
type DatasetConfig struct {
	// Source is one of http, file, s3, postgres (default: http)
	Source string `env:"DATASET_SOURCE" default:"http"`

	URL  string `env:"DATASET_URL"`
	File string `env:"DATASET_FILE"`

	S3Bucket    string `env:"DATASET_S3_BUCKET"`
	S3Key       string `env:"DATASET_S3_KEY"`
	S3Region    string `env:"DATASET_S3_REGION" envAlt:"AWS_REGION" default:"us-east-1"`
	S3Endpoint  string `env:"DATASET_S3_ENDPOINT"`
	S3AccessKey string `env:"DATASET_S3_ACCESS_KEY"`
	S3SecretKey string `env:"DATASET_S3_SECRET_KEY"`

	// PGURL is a PostgreSQL connection string; PGQuery must produce the export
	// columns (LEVEL, CODE and the four NATIONAL_TITLE_BE_* columns).
	PGURL   string `env:"DATASET_PG_URL" envAlt:"DATABASE_URL"`
	PGQuery string `env:"DATASET_PG_QUERY" default:"SELECT level, code, national_title_be_nl, national_title_be_fr, national_title_be_de, national_title_be_en FROM nacebel_codes ORDER BY ordinal"`

	// RefreshInterval is how long a loaded dataset is served before it is reloaded (default: 1h)
	RefreshInterval time.Duration `env:"DATASET_REFRESH_INTERVAL" default:"1h"`

	// LoadTimeout bounds a single fetch and parse (default: 30s)
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" default:"30s"`

	// MaxBytes caps the size of the fetched document (default: 32MiB)
	MaxBytes int64 `env:"DATASET_MAX_BYTES" default:"33554432"`

	// WarmOnStart loads the dataset before the server starts accepting requests (default: true)
	WarmOnStart bool `env:"DATASET_WARM_ON_START" default:"true"`
}

// CORSConfig holds the cross-origin headers sent on every response.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" default:"Content-Type,Authorization"`

	// MaxAge is the preflight cache duration in seconds; 0 omits the header
	MaxAge int `env:"CORS_MAX_AGE" default:"0"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
