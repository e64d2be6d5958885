package config

import (
	"github.com/danielpatrickdp/biorail-gate/internal/diagnostic"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
)

// #region config
// Config is the full runtime configuration. Everything in it is read-only to the gates.
type Config struct {
	Corridor     CorridorConfig     `yaml:"corridor"`
	Weights      projection.Weights `yaml:"weights"`
	Observer     diagnostic.Config  `yaml:"observer"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// CorridorConfig is the baseline risk corridor for one zone.
type CorridorConfig struct {
	Zone string  `yaml:"zone" validate:"required,oneof=neural_band vascular_conduit hydrogel_patch xr_field jetson_line_site"`
	Min  float64 `yaml:"min" validate:"gte=0,lte=1"`
	Max  float64 `yaml:"max" validate:"gte=0,lte=1,gtefield=Min"`
}

// OrchestratorConfig tunes the caller layer around the gates.
type OrchestratorConfig struct {
	MaxDownscaleRetries int     `yaml:"max_downscale_retries" validate:"gte=0,lte=10"`
	DownscaleFactor     float64 `yaml:"downscale_factor" validate:"gt=0,lt=1"`
	BatchConcurrency    int     `yaml:"batch_concurrency" validate:"gte=1,lte=1024"`
}

// LoggingConfig selects the slog level and whether tint colors output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Color bool   `yaml:"color"`
}

// #endregion config

// #region defaults
// Default returns the production configuration.
func Default() Config {
	return Config{
		Corridor: CorridorConfig{
			Zone: "neural_band",
			Min:  0.0,
			Max:  0.30,
		},
		Weights:  projection.DefaultWeights(),
		Observer: diagnostic.DefaultConfig(),
		Orchestrator: OrchestratorConfig{
			MaxDownscaleRetries: 2,
			DownscaleFactor:     0.5,
			BatchConcurrency:    8,
		},
		Logging: LoggingConfig{
			Level: "info",
			Color: false,
		},
	}
}

// #endregion defaults
