package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalid is returned by Load when a value fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the central typed configuration struct.
type Config struct {
	App  AppConfig
	Site SiteConfig
	Log  LogConfig
}

type AppConfig struct {
	Name  string `env:"APP_NAME" envDefault:"Nexus Tech" validate:"required"`
	Env   string `env:"APP_ENV" envDefault:"local" validate:"oneof=local production testing"`
	Debug bool   `env:"APP_DEBUG" envDefault:"true"`
	URL   string `env:"APP_URL" envDefault:"http://localhost" validate:"url"`
	Port  string `env:"APP_PORT" envDefault:"8000" validate:"numeric"`
}

type SiteConfig struct {
	// Dir is the static site root served at "/".
	Dir string `env:"SITE_DIR" envDefault:"./public" validate:"required"`
	// Pages are glob patterns, relative to Dir, scanned for validated forms.
	Pages []string `env:"SITE_PAGES" envDefault:"*.html" envSeparator:"," validate:"min=1"`
	// FormsFile optionally declares extra forms in YAML or TOML.
	FormsFile  string        `env:"FORMS_FILE"`
	SessionTTL time.Duration `env:"FORM_SESSION_TTL" envDefault:"30m" validate:"gt=0"`
	// MaxSessions caps live form sessions; the least recently used is dropped first.
	MaxSessions int `env:"FORM_SESSION_MAX" envDefault:"10000" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.App.Port }

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
