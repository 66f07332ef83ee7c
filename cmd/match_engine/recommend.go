package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishaaldeep/sahayak2-sub000/internal/db"
	"github.com/vishaaldeep/sahayak2-sub000/internal/notify"
	"github.com/vishaaldeep/sahayak2-sub000/internal/observability"
	"github.com/vishaaldeep/sahayak2-sub000/internal/recommend"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank a pool of jobs for one seeker",
	Long:  "Rank a pool of candidate jobs for a seeker profile, producing the top matches with sub-scores, match reasons, employer warnings, and pool insights.",
	RunE:  runRecommend,
}

var (
	recommendSeekerFile string
	recommendJobsFile   string
	recommendOutputFile string
	recommendTopN       int
	recommendSave       bool
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendSeekerFile, "seeker", "s", "", "Path to seeker profile JSON (required)")
	recommendCmd.Flags().StringVarP(&recommendJobsFile, "jobs", "j", "", "Path to job pool JSON array (required)")
	recommendCmd.Flags().StringVarP(&recommendOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	recommendCmd.Flags().IntVarP(&recommendTopN, "top", "n", 0, "Number of recommendations to return (overrides config)")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "Persist the recommendations to the database")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	if recommendSeekerFile == "" {
		return fmt.Errorf("--seeker is required")
	}
	if recommendJobsFile == "" {
		return fmt.Errorf("--jobs is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if recommendTopN > 0 {
		cfg.TopN = recommendTopN
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var seeker recommend.SeekerProfile
	if err := readJSONFile(recommendSeekerFile, &seeker); err != nil {
		return fmt.Errorf("failed to load seeker profile: %w", err)
	}

	var jobs []types.JobCandidate
	if err := readJSONFile(recommendJobsFile, &jobs); err != nil {
		return fmt.Errorf("failed to load job pool: %w", err)
	}

	opts := []recommend.RankerOption{recommend.WithNotifier(notify.NewLogNotifier(log))}
	if cfg.TopN > 0 {
		opts = append(opts, recommend.WithTopN(cfg.TopN))
	}
	ranker, err := recommend.NewRanker(recommend.DefaultSubWeights(), log, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := ranker.Rank(ctx, seeker, jobs)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if recommendSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database URL is required (set DATABASE_URL or 'database_url' in config)")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.SaveRecommendations(ctx, seeker.Snapshot.CandidateID, result); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintRecommendations(&result)
	}
	return writeJSONOutput(recommendOutputFile, result)
}
