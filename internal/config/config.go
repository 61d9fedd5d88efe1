package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultSecretsFile = ".secrets/secrets.toml"
	SecretsFileEnv     = "LOOKALIKE_SECRETS_FILE"
)

var ErrMissingAccessToken = errors.New("FB_ACCESS_TOKEN is not set in the secrets file or environment")

type Config struct {
	AccessToken      string        `mapstructure:"FB_ACCESS_TOKEN"`
	GraphBaseURL     string        `mapstructure:"FB_GRAPH_BASE_URL" validate:"required,url"`
	GraphAPIVersion  string        `mapstructure:"FB_GRAPH_API_VERSION" validate:"required"`
	AdAccountID      string        `mapstructure:"FB_AD_ACCOUNT_ID" validate:"omitempty,numeric"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR" validate:"required"`
	PostgresDSN      string        `mapstructure:"POSTGRES_DSN"`
	MigrationsPath   string        `mapstructure:"MIGRATIONS_PATH"`
	LogLevel         string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat        string        `mapstructure:"LOG_FORMAT" validate:"oneof=console json"`
	CreateInterval   time.Duration `mapstructure:"CREATE_INTERVAL" validate:"gte=0s"`
	AudienceCacheTTL time.Duration `mapstructure:"AUDIENCE_CACHE_TTL" validate:"gt=0s"`
	MaxBatchSize     int           `mapstructure:"MAX_BATCH_SIZE" validate:"gt=0"`
	HTTPTimeout      time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0s"`

	// SecretsFile is the file that was read, empty when none was found.
	SecretsFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"FB_ACCESS_TOKEN":      "",
	"FB_GRAPH_BASE_URL":    "https://graph.facebook.com",
	"FB_GRAPH_API_VERSION": "v19.0",
	"FB_AD_ACCOUNT_ID":     "",
	"HTTP_ADDR":            ":8080",
	"POSTGRES_DSN":         "",
	"MIGRATIONS_PATH":      "file://migrations",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "console",
	"CREATE_INTERVAL":      "1s",
	"AUDIENCE_CACHE_TTL":   "10m",
	"MAX_BATCH_SIZE":       500,
	"HTTP_TIMEOUT":         "30s",
}

// SecretsPath picks the secrets file: the explicit path, then
// LOOKALIKE_SECRETS_FILE, then the default location.
func SecretsPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(SecretsFileEnv); env != "" {
		return env
	}
	return DefaultSecretsFile
}

// Load reads the TOML secrets file and overlays environment variables of the
// same key names. A missing file is not an error; a missing token is.
func Load(path string) (*Config, error) {
	path = SecretsPath(path)

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("toml")

	read := true
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read secrets file %s: %w", path, err)
		}
		read = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if read {
		cfg.SecretsFile = path
	}

	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	cfg.AdAccountID = strings.TrimPrefix(strings.TrimSpace(cfg.AdAccountID), "act_")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return ErrMissingAccessToken
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) HistoryEnabled() bool {
	return c.PostgresDSN != ""
}

// Redact returns a copy that is safe to log.
func (c *Config) Redact() Config {
	redacted := *c
	if redacted.AccessToken != "" {
		redacted.AccessToken = "****"
	}
	if redacted.PostgresDSN != "" {
		redacted.PostgresDSN = "****"
	}
	return redacted
}
