// Package profile builds the immutable candidate snapshot consumed by the scoring engines.
package profile

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// SkillSource supplies a candidate's claimed skills.
type SkillSource interface {
	SkillsForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.SkillRecord, error)
}

// HistorySource supplies a candidate's work history.
type HistorySource interface {
	WorkHistoryForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.WorkEntry, error)
}

// OutcomeSource supplies a candidate's completed test outcomes.
type OutcomeSource interface {
	TestOutcomesForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.TestOutcome, error)
}

// StandingSource supplies a candidate's reliability counters and credit score.
// A nil credit score means none is on file.
type StandingSource interface {
	StandingForCandidate(ctx context.Context, candidateID uuid.UUID) (types.Reliability, *int, error)
}

// Sources bundles the four independent data sources of a snapshot.
type Sources struct {
	Skills   SkillSource
	History  HistorySource
	Outcomes OutcomeSource
	Standing StandingSource
}

// Aggregator folds the four sources into one CandidateSnapshot. A missing or
// failing source yields an empty or neutral sub-structure, never an error:
// partial data degrades the snapshot, it does not abort the aggregation.
type Aggregator struct {
	sources Sources
	log     *zap.Logger
}

// NewAggregator returns an Aggregator over the given sources. A nil logger
// disables logging.
func NewAggregator(sources Sources, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{sources: sources, log: log}
}

// Snapshot fetches the four sources concurrently and assembles the snapshot.
// Only context cancellation aborts the call; source errors are logged and
// mapped to neutral defaults.
func (a *Aggregator) Snapshot(ctx context.Context, candidateID uuid.UUID) (types.CandidateSnapshot, error) {
	snap := types.CandidateSnapshot{CandidateID: candidateID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		skills, err := a.sources.Skills.SkillsForCandidate(gctx, candidateID)
		if err != nil {
			a.log.Warn("skill source failed; scoring without skills",
				zap.String("candidate_id", candidateID.String()), zap.Error(err))
			return nil
		}
		snap.Skills = skills
		return gctx.Err()
	})

	g.Go(func() error {
		history, err := a.sources.History.WorkHistoryForCandidate(gctx, candidateID)
		if err != nil {
			a.log.Warn("history source failed; scoring without work history",
				zap.String("candidate_id", candidateID.String()), zap.Error(err))
			return nil
		}
		snap.WorkHistory = history
		return gctx.Err()
	})

	g.Go(func() error {
		outcomes, err := a.sources.Outcomes.TestOutcomesForCandidate(gctx, candidateID)
		if err != nil {
			a.log.Warn("outcome source failed; scoring without test history",
				zap.String("candidate_id", candidateID.String()), zap.Error(err))
			return nil
		}
		snap.TestOutcomes = outcomes
		return gctx.Err()
	})

	g.Go(func() error {
		reliability, credit, err := a.sources.Standing.StandingForCandidate(gctx, candidateID)
		if err != nil {
			a.log.Warn("standing source failed; scoring with neutral standing",
				zap.String("candidate_id", candidateID.String()), zap.Error(err))
			return nil
		}
		snap.Reliability = reliability
		snap.CreditScore = credit
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return types.CandidateSnapshot{}, err
	}

	applyDefaults(&snap)
	return snap, nil
}

// applyDefaults centralizes every "missing data means neutral" rule so the
// scoring formulas never have to re-derive them. Credit score stays nil here;
// EffectiveCreditScore supplies the neutral midpoint at read time.
func applyDefaults(snap *types.CandidateSnapshot) {
	if snap.Skills == nil {
		snap.Skills = []types.SkillRecord{}
	}
	if snap.WorkHistory == nil {
		snap.WorkHistory = []types.WorkEntry{}
	}
	if snap.TestOutcomes == nil {
		snap.TestOutcomes = []types.TestOutcome{}
	}
	for i := range snap.WorkHistory {
		if snap.WorkHistory[i].End == nil {
			snap.WorkHistory[i].IsCurrent = true
		}
	}
}
