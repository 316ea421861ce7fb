// Package config provides configuration management for the application.
// All settings come from environment variables; cmd loads an optional .env
// file before calling Load.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Files   FilesConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	// ProxyHost is the externally advertised base URL used to build file
	// retrieval URLs handed to the backend.
	ProxyHost string
	// MasterKey optionally gates the API with bearer auth. Empty disables
	// authentication.
	MasterKey string
	// BodySizeLimit caps request bodies in bytes. Zero uses the default.
	BodySizeLimit int64
}

// BackendConfig holds POSTECH GenAI backend configuration
type BackendConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FilesConfig holds file registry configuration
type FilesConfig struct {
	Dir string
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Format selects the slog handler: "json" (default) or "pretty".
	Format string
}

// DefaultBodySizeLimit caps request bodies at 10MB unless overridden.
const DefaultBodySizeLimit int64 = 10 << 20

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			ProxyHost:     getEnv("PROXY_HOST", "http://localhost:8080"),
			MasterKey:     os.Getenv("BRIDGE_MASTER_KEY"),
			BodySizeLimit: getEnvInt64("BODY_SIZE_LIMIT", DefaultBodySizeLimit),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("POSTECH_BASE_URL", "https://genai.postech.ac.kr/agent/api"),
			APIKey:  os.Getenv("POSTECH_API_KEY"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 120*time.Second),
		},
		Files: FilesConfig{
			Dir: getEnv("TMP_DIR", "./tmp"),
		},
		Metrics: MetricsConfig{
			Enabled:  getEnvBool("METRICS_ENABLED", false),
			Endpoint: getEnv("METRICS_ENDPOINT", "/metrics"),
		},
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration accepts either plain integers (interpreted as seconds) or
// Go duration strings (e.g. "2m", "90s").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}
