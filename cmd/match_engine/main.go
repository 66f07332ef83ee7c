// Package main provides the CLI for the candidate assessment and job-match
// scoring engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/config"
	"github.com/vishaaldeep/sahayak2-sub000/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "match_engine",
	Short: "Candidate assessment and job-match scoring engine",
	Long:  "match_engine scores job candidates against openings with a rule-based engine and an optional external AI scorer, ranks job recommendations for seekers, and drives timed skill-test sessions.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (if any), applies env overrides and the
// persistent flags, and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the zap logger for a command run.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.JSONLogs, cfg.Verbose)
}
