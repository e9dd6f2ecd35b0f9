package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Empty role set policies for the role guard.
const (
	EmptyRolesDeny  = "deny"
	EmptyRolesAllow = "allow"
)

type Config struct {
	APIBaseURL         string
	APITimeout         time.Duration
	APIRateLimitRPM    int
	SessionDir         string
	EncryptionKey      string
	DeviceFingerprint  string
	LoginPath          string
	LandingPath        string
	UnauthorizedPath   string
	EmptyRolesPolicy   string
	MediaMaxSize       int64
	MediaMaxFiles      int
	MediaMinFiles      int
	MediaAcceptedTypes []string
	ListingMinPrice    int64
	LogLevel           string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:3000/api"),
		APITimeout:         getDuration("API_TIMEOUT", 30*time.Second),
		APIRateLimitRPM:    getInt("API_RATE_LIMIT_RPM", 120),
		SessionDir:         getEnv("SESSION_DIR", "./state/session"),
		EncryptionKey:      strings.TrimSpace(os.Getenv("ENCRYPTION_KEY")),
		DeviceFingerprint:  strings.TrimSpace(os.Getenv("DEVICE_FINGERPRINT")),
		LoginPath:          getEnv("LOGIN_PATH", "/login"),
		LandingPath:        getEnv("LANDING_PATH", "/dashboard"),
		UnauthorizedPath:   getEnv("UNAUTHORIZED_PATH", "/unauthorized"),
		EmptyRolesPolicy:   strings.ToLower(getEnv("EMPTY_ROLES_POLICY", EmptyRolesDeny)),
		MediaMaxSize:       getInt64("MEDIA_MAX_SIZE", 5242880),
		MediaMaxFiles:      getInt("MEDIA_MAX_FILES", 5),
		MediaMinFiles:      getInt("MEDIA_MIN_FILES", 1),
		MediaAcceptedTypes: splitCSV(getEnv("MEDIA_ACCEPTED_TYPES", "image/*,.pdf,.doc,.docx")),
		ListingMinPrice:    getInt64("LISTING_MIN_PRICE", 1000),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MockAPIConfig configures cmd/mockapi, which needs none of the client
// settings.
type MockAPIConfig struct {
	Port        string
	JWTSecret   string
	CORSOrigins []string
	LogLevel    string
}

func LoadMockAPI() (*MockAPIConfig, error) {
	_ = godotenv.Load()

	cfg := &MockAPIConfig{
		Port:        getEnv("MOCKAPI_PORT", "3000"),
		JWTSecret:   getEnv("MOCKAPI_JWT_SECRET", "dev-secret"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("MOCKAPI_PORT must be a number")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}

	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}

	if strings.TrimSpace(c.EncryptionKey) == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.SessionDir) == "" {
		return fmt.Errorf("SESSION_DIR cannot be empty")
	}

	if c.EmptyRolesPolicy != EmptyRolesDeny && c.EmptyRolesPolicy != EmptyRolesAllow {
		return fmt.Errorf("EMPTY_ROLES_POLICY must be %q or %q", EmptyRolesDeny, EmptyRolesAllow)
	}

	if c.MediaMaxSize <= 0 {
		return fmt.Errorf("MEDIA_MAX_SIZE must be positive")
	}

	if c.MediaMaxFiles <= 0 {
		return fmt.Errorf("MEDIA_MAX_FILES must be positive")
	}

	if c.MediaMinFiles < 0 || c.MediaMinFiles > c.MediaMaxFiles {
		return fmt.Errorf("MEDIA_MIN_FILES must be between 0 and MEDIA_MAX_FILES")
	}

	if c.ListingMinPrice < 0 {
		return fmt.Errorf("LISTING_MIN_PRICE cannot be negative")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
