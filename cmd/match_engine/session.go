package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/config"
	"github.com/vishaaldeep/sahayak2-sub000/internal/db"
	"github.com/vishaaldeep/sahayak2-sub000/internal/observability"
	"github.com/vishaaldeep/sahayak2-sub000/internal/testsession"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage skill test sessions",
	Long:  "Assign, start, answer, complete, and list timed skill test sessions for a candidate.",
}

var sessionAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a new skill test to a candidate",
	RunE:  runSessionAssign,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an assigned session, opening its submission window",
	RunE:  runSessionStart,
}

var sessionAnswerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Record an answer for one question",
	RunE:  runSessionAnswer,
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete a session and grade it",
	RunE:  runSessionComplete,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a candidate's sessions",
	RunE:  runSessionList,
}

var (
	sessionID          string
	sessionCandidateID string
	sessionSkillID     string
	sessionJobID       string
	sessionAssignedBy  string
	sessionQuestion    int
	sessionOption      int
	sessionOutputFile  string
)

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionCandidateID, "candidate-id", "", "Candidate UUID (required)")
	sessionCmd.PersistentFlags().StringVarP(&sessionOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")

	sessionAssignCmd.Flags().StringVar(&sessionSkillID, "skill-id", "", "Skill UUID (required)")
	sessionAssignCmd.Flags().StringVar(&sessionJobID, "job-id", "", "Job UUID the test is for (optional)")
	sessionAssignCmd.Flags().StringVar(&sessionAssignedBy, "assigned-by", "", "Assigning user UUID (required)")

	sessionStartCmd.Flags().StringVar(&sessionID, "session-id", "", "Session UUID (required)")

	sessionAnswerCmd.Flags().StringVar(&sessionID, "session-id", "", "Session UUID (required)")
	sessionAnswerCmd.Flags().IntVarP(&sessionQuestion, "question", "q", -1, "Zero-based question index (required)")
	sessionAnswerCmd.Flags().IntVar(&sessionOption, "option", -1, "Zero-based selected option (required)")

	sessionCompleteCmd.Flags().StringVar(&sessionID, "session-id", "", "Session UUID (required)")

	sessionCmd.AddCommand(sessionAssignCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionAnswerCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

// sessionEnv bundles the pieces every session subcommand needs.
type sessionEnv struct {
	cfg     *config.Config
	log     *zap.Logger
	service *testsession.Service
	close   func()
}

func newSessionEnv(ctx context.Context) (*sessionEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or 'database_url' in config)")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sessionConfig := testsession.DefaultConfig()
	if cfg.MaxQuestions > 0 {
		sessionConfig.MaxQuestions = cfg.MaxQuestions
	}
	if cfg.DurationMinutes > 0 {
		sessionConfig.DurationMinutes = cfg.DurationMinutes
	}
	service, err := testsession.NewService(database, sessionConfig, log)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &sessionEnv{
		cfg:     cfg,
		log:     log,
		service: service,
		close: func() {
			database.Close()
			_ = log.Sync()
		},
	}, nil
}

func (e *sessionEnv) emit(session *types.TestSession) error {
	if e.cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintSession(session)
	}
	return writeJSONOutput(sessionOutputFile, session)
}

func parseFlagUUID(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", name)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return id, nil
}

func runSessionAssign(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := parseFlagUUID("candidate-id", sessionCandidateID)
	if err != nil {
		return err
	}
	skillID, err := parseFlagUUID("skill-id", sessionSkillID)
	if err != nil {
		return err
	}
	assignedBy, err := parseFlagUUID("assigned-by", sessionAssignedBy)
	if err != nil {
		return err
	}
	var jobID *uuid.UUID
	if sessionJobID != "" {
		id, err := uuid.Parse(sessionJobID)
		if err != nil {
			return fmt.Errorf("invalid --job-id: %w", err)
		}
		jobID = &id
	}

	env, err := newSessionEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	session, err := env.service.Assign(ctx, testsession.AssignRequest{
		CandidateID: candidateID,
		SkillID:     skillID,
		JobID:       jobID,
		AssignedBy:  assignedBy,
	})
	if err != nil {
		return err
	}
	return env.emit(session)
}

func runSessionStart(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := parseFlagUUID("candidate-id", sessionCandidateID)
	if err != nil {
		return err
	}
	id, err := parseFlagUUID("session-id", sessionID)
	if err != nil {
		return err
	}

	env, err := newSessionEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	session, err := env.service.Start(ctx, id, candidateID)
	if err != nil {
		return err
	}
	return env.emit(session)
}

func runSessionAnswer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := parseFlagUUID("candidate-id", sessionCandidateID)
	if err != nil {
		return err
	}
	id, err := parseFlagUUID("session-id", sessionID)
	if err != nil {
		return err
	}
	if sessionQuestion < 0 {
		return fmt.Errorf("--question is required")
	}
	if sessionOption < 0 {
		return fmt.Errorf("--option is required")
	}

	env, err := newSessionEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	session, err := env.service.SubmitAnswer(ctx, id, candidateID, sessionQuestion, sessionOption)
	if err != nil {
		return err
	}
	return env.emit(session)
}

func runSessionComplete(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := parseFlagUUID("candidate-id", sessionCandidateID)
	if err != nil {
		return err
	}
	id, err := parseFlagUUID("session-id", sessionID)
	if err != nil {
		return err
	}

	env, err := newSessionEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	session, err := env.service.Complete(ctx, id, candidateID)
	if err != nil {
		return err
	}
	return env.emit(session)
}

func runSessionList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := parseFlagUUID("candidate-id", sessionCandidateID)
	if err != nil {
		return err
	}

	env, err := newSessionEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	sessions, err := env.service.ListForCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	if env.cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		for _, session := range sessions {
			printer.PrintSession(session)
		}
	}
	return writeJSONOutput(sessionOutputFile, sessions)
}
