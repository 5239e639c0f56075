package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc returns the value of an environment variable, or "" when unset.
type LookupFunc func(key string) string

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an explicit variable lookup.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if cfg.Dataset.URL == "" {
		cfg.Dataset.URL = DefaultDatasetURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from the lookup.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}
		envAlt := field.Tag.Get("envAlt")

		value := lookup(envName)
		if value == "" && envAlt != "" {
			value = lookup(envAlt)
		}

		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value and drops empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	if c.Server.ExportMaxConcurrent <= 0 {
		errs = append(errs, "EXPORT_MAX_CONCURRENT must be positive")
	}
	if c.Server.ExportMaxWait <= 0 {
		errs = append(errs, "EXPORT_MAX_WAIT must be positive")
	}

	errs = append(errs, c.Dataset.validate()...)

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	if c.CORS.MaxAge < 0 {
		errs = append(errs, "CORS_MAX_AGE must be non-negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func (d *DatasetConfig) validate() []string {
	var errs []string

	switch strings.ToLower(d.Source) {
	case SourceHTTP:
		if u, err := url.Parse(d.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("DATASET_URL (%q) must be an absolute http(s) URL", d.URL))
		}
	case SourceFile:
		if d.File == "" {
			errs = append(errs, "DATASET_FILE is required when DATASET_SOURCE=file")
		}
	case SourceS3:
		if d.S3Bucket == "" || d.S3Key == "" {
			errs = append(errs, "DATASET_S3_BUCKET and DATASET_S3_KEY are required when DATASET_SOURCE=s3")
		}
		if (d.S3AccessKey == "") != (d.S3SecretKey == "") {
			errs = append(errs, "DATASET_S3_ACCESS_KEY and DATASET_S3_SECRET_KEY must be set together")
		}
	case SourcePostgres:
		if d.PGURL == "" {
			errs = append(errs, "DATASET_PG_URL is required when DATASET_SOURCE=postgres")
		}
		if strings.TrimSpace(d.PGQuery) == "" {
			errs = append(errs, "DATASET_PG_QUERY must not be empty")
		}
	default:
		errs = append(errs, fmt.Sprintf("DATASET_SOURCE (%q) must be one of: http, file, s3, postgres", d.Source))
	}

	if d.RefreshInterval <= 0 {
		errs = append(errs, "DATASET_REFRESH_INTERVAL must be positive")
	}
	if d.LoadTimeout <= 0 {
		errs = append(errs, "DATASET_LOAD_TIMEOUT must be positive")
	}
	if d.MaxBytes < 0 {
		errs = append(errs, "DATASET_MAX_BYTES must be non-negative")
	}

	return errs
}

// String returns a safe string representation of the config for logging.
// Credentials and connection strings are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Dataset: {Source: %q, URL: %q, File: %q, S3: %s/%s, PGURL: %s, RefreshInterval: %s}, ",
		c.Dataset.Source, c.Dataset.URL, c.Dataset.File,
		c.Dataset.S3Bucket, c.Dataset.S3Key, mask(c.Dataset.PGURL), c.Dataset.RefreshInterval)
	fmt.Fprintf(&b, "S3Credentials: %s, ", mask(c.Dataset.S3AccessKey+c.Dataset.S3SecretKey))
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
