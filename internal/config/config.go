// Package config provides configuration loading for the quotation pipeline.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/WatcharananPha/quotegrid/internal/llm"
)

// Config holds all configuration for one pipeline run.
type Config struct {
	Gemini        GeminiConfig        `yaml:"gemini"`
	Grid          GridConfig          `yaml:"grid"`
	Matching      MatchingConfig      `yaml:"matching"`
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Observability ObservabilityConfig `yaml:"observability"`
	Prompts       llm.Prompts         `yaml:"prompts"`
}

// GeminiConfig holds API access and model selection.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	FlashModel string `yaml:"flash_model"`
	ProModel   string `yaml:"pro_model"`
}

// GridConfig selects and addresses the spreadsheet backend.
type GridConfig struct {
	// Backend is "sheets", "excel" or "memory".
	Backend string `yaml:"backend"`
	// Target is a spreadsheet ID or URL for sheets, a file path for excel.
	Target          string `yaml:"target"`
	CredentialsFile string `yaml:"credentials_file"`
}

// MatchingConfig selects the product matching strategy.
type MatchingConfig struct {
	// Strategy is "heuristic", "gemini" or "none".
	Strategy string `yaml:"strategy"`
}

// ExtractionConfig tunes the document processing stage.
type ExtractionConfig struct {
	Workers            int           `yaml:"workers"`
	Revise             bool          `yaml:"revise"`
	UploadPollTimeout  time.Duration `yaml:"upload_poll_timeout"`
	UploadPollInterval time.Duration `yaml:"upload_poll_interval"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json or console
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			FlashModel: llm.DefaultFlashModel,
			ProModel:   llm.DefaultProModel,
		},
		Grid: GridConfig{
			Backend: "sheets",
		},
		Matching: MatchingConfig{
			Strategy: "heuristic",
		},
		Extraction: ExtractionConfig{
			Workers:            10,
			Revise:             true,
			UploadPollTimeout:  llm.DefaultPollTimeout,
			UploadPollInterval: llm.DefaultPollInterval,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Grid.Backend {
	case "sheets", "excel", "memory":
	default:
		return fmt.Errorf("unknown grid backend: %q", c.Grid.Backend)
	}
	if c.Grid.Backend != "memory" && c.Grid.Target == "" {
		return fmt.Errorf("grid backend %q requires a target", c.Grid.Backend)
	}

	switch c.Matching.Strategy {
	case "heuristic", "gemini", "none":
	default:
		return fmt.Errorf("unknown matching strategy: %q", c.Matching.Strategy)
	}

	if c.Extraction.Workers < 0 {
		return fmt.Errorf("extraction workers must not be negative: %d", c.Extraction.Workers)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" && cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = v
	}

	if v := os.Getenv("QUOTEGRID_SPREADSHEET"); v != "" {
		cfg.Grid.Backend = "sheets"
		cfg.Grid.Target = v
	}

	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && cfg.Grid.CredentialsFile == "" {
		cfg.Grid.CredentialsFile = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
