package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Netflix/go-env"
)

// Config holds the client settings, read from the environment
type Config struct {
	Environment      string        `env:"ENVIRONMENT,default=dev"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	APIBaseURL       string        `env:"API_BASE_URL,default=https://api.fulboost.fun/api"`
	BackendURL       string        `env:"BACKEND_URL,default=https://api.fulboost.fun"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	LoginRoute       string        `env:"LOGIN_ROUTE,default=/login"`
	TokenStorePath   string        `env:"TOKEN_STORE_PATH"`
	TokenStoreSecret string        `env:"TOKEN_STORE_SECRET"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

const (
	// MemoryTokenStore selects a token store that does not outlive the process
	MemoryTokenStore = ":memory:"

	DefaultRequestTimeout = 30 * time.Second
	sessionFileName       = "session.json"
)

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if cfg.TokenStorePath == "" {
		path, err := defaultTokenStorePath()
		if err != nil {
			return nil, err
		}
		cfg.TokenStorePath = path
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func defaultTokenStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not locate user config dir (set TOKEN_STORE_PATH): %w", err)
	}
	return filepath.Join(dir, "fulboost", sessionFileName), nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if err := validateBaseURL("API_BASE_URL", cfg.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("BACKEND_URL", cfg.BackendURL); err != nil {
		return err
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", cfg.RequestTimeout)
	}

	if cfg.LoginRoute == "" {
		return fmt.Errorf("LOGIN_ROUTE cannot be empty")
	}

	if cfg.TokenStoreSecret != "" && len(cfg.TokenStoreSecret) < 8 {
		return fmt.Errorf("TOKEN_STORE_SECRET must be at least 8 characters")
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got '%s'", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got '%s'", name, raw)
	}
	return nil
}
