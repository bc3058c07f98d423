package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

// ServerConfig is a struct that contains configuration values for the portal.
type ServerConfig struct {
	// APIBaseURL is the root URL of the course backend, without a trailing slash.
	APIBaseURL string
	// APITimeout bounds every call made to the backend.
	APITimeout time.Duration
	// AllowedOrigins is a list of URLs that the server will accept cross-origin requests from.
	AllowedOrigins []string
	// SessionCookieName is the name to use for the session cookie.
	SessionCookieName string
	// SessionCookieExpiration is the amount of time a session cookie is valid.
	SessionCookieExpiration time.Duration
	// SessionSecret signs and encrypts the session cookie. Must be at least 32 bytes.
	SessionSecret string
	// IsHTTPS marks the session cookie as Secure.
	IsHTTPS bool
	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool
	// Port is the port the server should run on.
	Port int
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		APIBaseURL:              "http://localhost:3000",
		APITimeout:              15 * time.Second,
		AllowedOrigins:          []string{"http://localhost:8080"},
		SessionCookieName:       "course-portal-session",
		SessionCookieExpiration: time.Hour * 24 * 7,
		IsHTTPS:                 false,
		MetricsEnabled:          true,
		Port:                    8080,
	}
}

// Load builds the configuration from the environment, reading a .env file first when one exists.
func Load() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		glog.Infoln("🙂️ No .env file found, using the process environment.")
	}

	def := DefaultConfig()
	cfg := &ServerConfig{
		APIBaseURL:        strings.TrimRight(getEnv("API_URL", def.APIBaseURL), "/"),
		AllowedOrigins:    getStringSlice("ALLOWED_ORIGINS", def.AllowedOrigins),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", def.SessionCookieName),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
	}

	var err error
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", def.APITimeout); err != nil {
		return nil, err
	}
	if cfg.SessionCookieExpiration, err = getDuration("SESSION_COOKIE_EXPIRATION", def.SessionCookieExpiration); err != nil {
		return nil, err
	}
	if cfg.IsHTTPS, err = getBool("IS_HTTPS", def.IsHTTPS); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", def.MetricsEnabled); err != nil {
		return nil, err
	}
	if cfg.Port, err = getInt("PORT", def.Port); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		glog.Warningln("SESSION_SECRET is not set, generating a random one. Sessions will not survive a restart.")
		cfg.SessionSecret, err = randomSecret()
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a ServerConfig for values the portal cannot run with.
func (c *ServerConfig) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_URL: %q", c.APIBaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes long")
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must be a non-empty string")
	}
	return nil
}

// Helpers for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q (expected true/false or 1/0)", key, value)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
