// Package config loads service settings from an optional YAML file, an
// optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds every setting of the service.
type Config struct {
	Server struct {
		Host           string  `yaml:"host"`
		Port           int     `yaml:"port"`
		StaticDir      string  `yaml:"static_dir"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
		TrustProxy     bool    `yaml:"trust_proxy"`
	} `yaml:"server"`

	Freee struct {
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		RedirectURI  string   `yaml:"redirect_uri"`
		CompanyID    string   `yaml:"company_id"`
		Scopes       []string `yaml:"scopes"`
		Prompt       string   `yaml:"prompt"`
		AuthURL      string   `yaml:"auth_url"`
		TokenURL     string   `yaml:"token_url"`
		APIURL       string   `yaml:"api_url"`

		// TimeoutSec bounds every upstream request.
		TimeoutSec int `yaml:"timeout_sec"`
	} `yaml:"freee"`

	State struct {
		TTLSec int `yaml:"ttl_sec"`
	} `yaml:"state"`

	Store struct {
		Backend       string `yaml:"backend"`
		RedisURL      string `yaml:"redis_url"`
		DatabaseURL   string `yaml:"database_url"`
		EncryptionKey string `yaml:"encryption_key"`
	} `yaml:"store"`

	Auth struct {
		// OperatorTokenSecret enables bearer auth on /check when set.
		OperatorTokenSecret string `yaml:"operator_token_secret"`
	} `yaml:"auth"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns a Config with defaults applied.
func Default() *Config {
	c := &Config{}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 10000
	c.Server.RateLimitRPS = 1
	c.Server.RateLimitBurst = 10
	// freee only grants payroll statements under the payroll scope.
	c.Freee.Scopes = []string{"read", "write", "payroll"}
	c.Freee.TimeoutSec = 30
	c.State.TTLSec = 600
	c.Store.Backend = BackendMemory
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// LoadEnvFiles loads .env files into the process environment. Variables
// already set win. Missing files are ignored.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path when non-empty, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.StaticDir = getEnv("STATIC_DIR", c.Server.StaticDir)
	c.Server.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", c.Server.RateLimitRPS)
	c.Server.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.Server.RateLimitBurst)
	c.Server.TrustProxy = getEnvBool("TRUST_PROXY", c.Server.TrustProxy)

	c.Freee.ClientID = getEnv("FREEE_CLIENT_ID", c.Freee.ClientID)
	c.Freee.ClientSecret = getEnv("FREEE_CLIENT_SECRET", c.Freee.ClientSecret)
	c.Freee.RedirectURI = getEnv("FREEE_REDIRECT_URI", c.Freee.RedirectURI)
	c.Freee.CompanyID = getEnv("FREEE_COMPANY_ID", c.Freee.CompanyID)
	if v := getEnv("FREEE_SCOPES", ""); v != "" {
		c.Freee.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	c.Freee.Prompt = getEnv("FREEE_PROMPT", c.Freee.Prompt)
	c.Freee.AuthURL = getEnv("FREEE_AUTH_URL", c.Freee.AuthURL)
	c.Freee.TokenURL = getEnv("FREEE_TOKEN_URL", c.Freee.TokenURL)
	c.Freee.APIURL = getEnv("FREEE_API_URL", c.Freee.APIURL)
	c.Freee.TimeoutSec = getEnvInt("UPSTREAM_TIMEOUT_SEC", c.Freee.TimeoutSec)

	c.State.TTLSec = getEnvInt("STATE_TTL_SEC", c.State.TTLSec)

	c.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", c.Store.Backend))
	c.Store.RedisURL = getEnv("REDIS_URL", c.Store.RedisURL)
	c.Store.DatabaseURL = getEnv("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.EncryptionKey = getEnv("TOKEN_ENCRYPTION_KEY", c.Store.EncryptionKey)

	c.Auth.OperatorTokenSecret = getEnv("OPERATOR_TOKEN_SECRET", c.Auth.OperatorTokenSecret)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate reports every missing or inconsistent setting needed to serve.
func (c *Config) Validate() error {
	var errs []error
	require := func(val, key string) {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	require(c.Freee.ClientID, "FREEE_CLIENT_ID")
	require(c.Freee.ClientSecret, "FREEE_CLIENT_SECRET")
	require(c.Freee.RedirectURI, "FREEE_REDIRECT_URI")
	require(c.Freee.CompanyID, "FREEE_COMPANY_ID")

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Server.Port))
	}
	if c.Freee.TimeoutSec <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT_SEC must be positive"))
	}
	if c.State.TTLSec <= 0 {
		errs = append(errs, errors.New("STATE_TTL_SEC must be positive"))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		require(c.Store.RedisURL, "REDIS_URL")
		require(c.Store.EncryptionKey, "TOKEN_ENCRYPTION_KEY")
	case BackendPostgres:
		require(c.Store.DatabaseURL, "DATABASE_URL")
		require(c.Store.EncryptionKey, "TOKEN_ENCRYPTION_KEY")
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be memory, redis or postgres, got %q", c.Store.Backend))
	}

	return errors.Join(errs...)
}

// UpstreamTimeout returns the upstream request timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Freee.TimeoutSec) * time.Second
}

// StateTTL returns the authorization state lifetime.
func (c *Config) StateTTL() time.Duration {
	return time.Duration(c.State.TTLSec) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return result
		}
	}
	return defaultValue
}
