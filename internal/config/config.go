// Package config provides configuration loading and validation for the
// scoring engine and its CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vishaaldeep/sahayak2-sub000/internal/assessment"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// Environment variable overrides applied after file loading.
const (
	EnvAPIKey          = "GEMINI_API_KEY"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvPrimaryMethod   = "ASSESSMENT_METHOD"
	EnvFallbackEnabled = "ASSESSMENT_FALLBACK"
)

// Config represents the engine configuration loadable from a JSON file.
// All fields are optional; missing values use production defaults.
type Config struct {
	// External scorer
	APIKey          string `json:"api_key,omitempty"`          // Gemini API key
	Model           string `json:"model,omitempty"`            // Gemini model name
	PrimaryMethod   string `json:"primary_method,omitempty"`   // "rule_based" or "external"
	FallbackEnabled *bool  `json:"fallback_enabled,omitempty"` // nil means enabled

	// Scoring model
	Weights    *assessment.Weights    `json:"weights,omitempty"`
	Thresholds *assessment.Thresholds `json:"thresholds,omitempty"`

	// Test sessions
	MaxQuestions    int `json:"max_questions,omitempty"`
	DurationMinutes int `json:"duration_minutes,omitempty"`

	// Recommendations
	TopN int `json:"top_n,omitempty"`

	// Infrastructure
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	JSONLogs    bool   `json:"json_logs,omitempty"`    // Emit structured JSON logs
}

// Load reads configuration from a JSON file, if path is non-empty, and then
// applies environment overrides. An empty path yields the env-only config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values. Env wins.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvPrimaryMethod); v != "" {
		c.PrimaryMethod = v
	}
	if v := os.Getenv(EnvFallbackEnabled); v != "" {
		enabled := v == "true" || v == "1"
		c.FallbackEnabled = &enabled
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.PrimaryMethod != "" {
		switch types.AssessmentMethod(c.PrimaryMethod) {
		case types.MethodRuleBased, types.MethodExternal:
		default:
			return fmt.Errorf("config error: 'primary_method' must be %q or %q",
				types.MethodRuleBased, types.MethodExternal)
		}
	}
	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.MaxQuestions < 0 {
		return fmt.Errorf("config error: 'max_questions' must be non-negative")
	}
	if c.DurationMinutes < 0 {
		return fmt.Errorf("config error: 'duration_minutes' must be non-negative")
	}
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	return nil
}

// EffectiveWeights returns the configured weights or the production defaults.
func (c *Config) EffectiveWeights() assessment.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return assessment.DefaultWeights()
}

// EffectiveThresholds returns the configured thresholds or the production
// defaults.
func (c *Config) EffectiveThresholds() assessment.Thresholds {
	if c.Thresholds != nil {
		return *c.Thresholds
	}
	return assessment.DefaultThresholds()
}

// EffectivePrimaryMethod returns the configured primary method, defaulting to
// external scoring with rule-based fallback.
func (c *Config) EffectivePrimaryMethod() types.AssessmentMethod {
	if c.PrimaryMethod == "" {
		return types.MethodExternal
	}
	return types.AssessmentMethod(c.PrimaryMethod)
}

// EffectiveFallbackEnabled reports whether rule-based fallback is on. It
// defaults to on; disabling it is an explicit choice.
func (c *Config) EffectiveFallbackEnabled() bool {
	if c.FallbackEnabled == nil {
		return true
	}
	return *c.FallbackEnabled
}
