package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPath names the environment variable holding the config file path.
const EnvPath = "BIORAIL_CONFIG"

const defaultPath = "biorail.yaml"

var validate = validator.New()

// #region load
// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// PathFromEnv returns $BIORAIL_CONFIG, or biorail.yaml when unset.
func PathFromEnv() string {
	return envOr(EnvPath, defaultPath)
}

// #endregion load

// #region validate
// Validate checks struct tags, then the cross-field rules tags cannot express.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := cfg.BaselineCorridor(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// BaselineCorridor builds the zone-bound corridor described by the config.
func (c Config) BaselineCorridor() (corridor.Corridor, error) {
	return corridor.NewCorridor(corridor.Zone(c.Corridor.Zone), c.Corridor.Min, c.Corridor.Max)
}

// #endregion validate

// #region logger
// Logger builds the tint logger described by the logging section.
func (c LoggingConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return logging.NewLogger(w, level, c.Color), nil
}

// #endregion logger

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
