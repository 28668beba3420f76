package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Local     LocalConfig     `mapstructure:"local"`
	Sync      SyncConfig      `mapstructure:"sync"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	PublicBaseURL  string   `mapstructure:"public_base_url"` // prefix for shareable meal links
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds food cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
	USDA  int `mapstructure:"usda"`   // requests per hour to FoodData Central
}

// RemoteConfig points at the user backend that mirrors meals and favorites.
// An empty BaseURL means the client runs offline.
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LocalConfig holds the on-device cache location. Empty means the default path.
type LocalConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// SyncConfig bounds background pushes to the remote store
type SyncConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads server configuration. The USDA API key is required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadClient loads configuration for the command-line client. Commands that
// reach FoodData Central check the API key themselves.
func LoadClient() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := validateCommon(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/calcthie/")

	// CALCTHIE_USDA_API_KEY maps to usda.api_key
	v.SetEnvPrefix("CALCTHIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.public_base_url", "http://localhost:5173")

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	// Cache defaults
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	// Remote store defaults
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout", "15s")

	v.SetDefault("local.db_path", "")
	v.SetDefault("sync.timeout", "15s")
}

// validate validates server configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set CALCTHIE_USDA_API_KEY)")
	}
	return validateCommon(config)
}

func validateCommon(config *Config) error {
	switch config.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server environment must be development, production or test, got: %s", config.Server.Environment)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.USDA <= 0 {
		return fmt.Errorf("rate limits must be positive (per_ip=%d, usda=%d)", config.RateLimit.PerIP, config.RateLimit.USDA)
	}

	if config.Remote.BaseURL != "" {
		parsed, err := url.Parse(config.Remote.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("remote base url must be an absolute URL, got: %s", config.Remote.BaseURL)
		}
	}

	if config.Remote.Timeout <= 0 || config.Sync.Timeout <= 0 {
		return fmt.Errorf("remote and sync timeouts must be positive")
	}

	return nil
}
