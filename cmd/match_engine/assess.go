package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/assessment"
	"github.com/vishaaldeep/sahayak2-sub000/internal/config"
	"github.com/vishaaldeep/sahayak2-sub000/internal/db"
	"github.com/vishaaldeep/sahayak2-sub000/internal/llm"
	"github.com/vishaaldeep/sahayak2-sub000/internal/observability"
	"github.com/vishaaldeep/sahayak2-sub000/internal/profile"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score one candidate against one job",
	Long:  "Score a candidate snapshot against a job requirement, producing an assessment result with recommendation, confidence, and per-dimension breakdown. The snapshot comes from a JSON file or is aggregated live from the database.",
	RunE:  runAssess,
}

var (
	assessProfileFile string
	assessCandidateID string
	assessJobFile     string
	assessOutputFile  string
	assessMethod      string
	assessSave        bool
)

func init() {
	assessCmd.Flags().StringVarP(&assessProfileFile, "profile", "p", "", "Path to candidate snapshot JSON (mutually exclusive with --candidate-id)")
	assessCmd.Flags().StringVar(&assessCandidateID, "candidate-id", "", "Candidate UUID to aggregate from the database")
	assessCmd.Flags().StringVarP(&assessJobFile, "job", "j", "", "Path to job requirement JSON (required)")
	assessCmd.Flags().StringVarP(&assessOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	assessCmd.Flags().StringVar(&assessMethod, "method", "", "Primary scoring method: rule_based or external (overrides config)")
	assessCmd.Flags().BoolVar(&assessSave, "save", false, "Persist the result to the database")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(_ *cobra.Command, _ []string) error {
	if assessJobFile == "" {
		return fmt.Errorf("--job is required")
	}
	if (assessProfileFile == "") == (assessCandidateID == "") {
		return fmt.Errorf("exactly one of --profile or --candidate-id is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if assessMethod != "" {
		cfg.PrimaryMethod = assessMethod
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	var job types.JobRequirement
	if err := readJSONFile(assessJobFile, &job); err != nil {
		return fmt.Errorf("failed to load job requirement: %w", err)
	}

	var database *db.DB
	if assessCandidateID != "" || assessSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database URL is required (set DATABASE_URL or 'database_url' in config)")
		}
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	snap, err := loadSnapshot(ctx, database, log)
	if err != nil {
		return err
	}

	orchestrator, cleanup, err := buildOrchestrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orchestrator.Assess(ctx, snap, job)
	if err != nil {
		return fmt.Errorf("assessment failed: %w", err)
	}

	if assessSave {
		if err := database.SaveAssessmentResult(ctx, result); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintAssessment(&result)
	}
	return writeJSONOutput(assessOutputFile, result)
}

// loadSnapshot reads the candidate snapshot from the profile file, or
// aggregates it from the database sources.
func loadSnapshot(ctx context.Context, database *db.DB, log *zap.Logger) (types.CandidateSnapshot, error) {
	if assessProfileFile != "" {
		var snap types.CandidateSnapshot
		if err := readJSONFile(assessProfileFile, &snap); err != nil {
			return types.CandidateSnapshot{}, fmt.Errorf("failed to load candidate snapshot: %w", err)
		}
		return snap, nil
	}

	candidateID, err := uuid.Parse(assessCandidateID)
	if err != nil {
		return types.CandidateSnapshot{}, fmt.Errorf("invalid candidate id: %w", err)
	}

	aggregator := profile.NewAggregator(profile.Sources{
		Skills:   database,
		History:  database,
		Outcomes: database,
		Standing: database,
	}, log)
	return aggregator.Snapshot(ctx, candidateID)
}

// buildOrchestrator wires the rule engine and, when configured, the external
// scorer. The returned cleanup closes the scorer client.
func buildOrchestrator(ctx context.Context, cfg *config.Config, log *zap.Logger) (*assessment.Orchestrator, func(), error) {
	engine := assessment.NewEngine(cfg.EffectiveWeights(), cfg.EffectiveThresholds())
	cleanup := func() {}

	var external assessment.Scorer
	if cfg.EffectivePrimaryMethod() == types.MethodExternal && cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = client.Close() }
		external = assessment.NewExternalScorer(client, cfg.EffectiveWeights())
	}

	orchestrator, err := assessment.NewOrchestrator(assessment.OrchestratorConfig{
		PrimaryMethod:   cfg.EffectivePrimaryMethod(),
		FallbackEnabled: cfg.EffectiveFallbackEnabled(),
	}, engine, external, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return orchestrator, cleanup, nil
}

// readJSONFile decodes one JSON document from a file.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSONOutput writes v as indented JSON to the given file, or stdout
// when path is empty.
func writeJSONOutput(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
