package assessment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// Scorer is the external scoring path as the orchestrator sees it.
type Scorer interface {
	Assess(ctx context.Context, snap types.CandidateSnapshot, job types.JobRequirement) (types.AssessmentResult, error)
}

// OrchestratorConfig selects the primary scoring path and whether the
// rule-based engine backstops external failures.
type OrchestratorConfig struct {
	PrimaryMethod   types.AssessmentMethod
	FallbackEnabled bool
}

// Validate checks that the primary method is a configurable one.
func (c OrchestratorConfig) Validate() error {
	switch c.PrimaryMethod {
	case types.MethodRuleBased, types.MethodExternal:
		return nil
	}
	return fmt.Errorf("primary method must be %q or %q, got %q",
		types.MethodRuleBased, types.MethodExternal, c.PrimaryMethod)
}

// Orchestrator routes assessment requests to the configured primary scorer
// and, when enabled, falls back to the rule-based engine on external failure.
// A fallback result is identical to a direct rule-based run except for its
// method metadata.
type Orchestrator struct {
	cfg      OrchestratorConfig
	engine   *Engine
	external Scorer
	log      *zap.Logger
}

// errScorerNotConfigured stands in for a transport failure when the primary
// is external but no scorer was set up. It takes the same fallback path as
// any other external failure.
var errScorerNotConfigured = fmt.Errorf("external scorer not configured")

// NewOrchestrator creates an orchestrator. external may be nil: with an
// external primary and fallback enabled the missing scorer degrades to the
// rule-based path, the same as any other external failure. engine is always
// required because it is the fallback path.
func NewOrchestrator(cfg OrchestratorConfig, engine *Engine, external Scorer, log *zap.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, fmt.Errorf("rule-based engine is required")
	}
	if cfg.PrimaryMethod == types.MethodExternal && external == nil && !cfg.FallbackEnabled {
		return nil, fmt.Errorf("external scorer is required when it is the primary method and fallback is disabled")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, engine: engine, external: external, log: log}, nil
}

// Assess produces one assessment result, never failing as long as the
// fallback is enabled. The result records which path produced it and how long
// scoring took.
func (o *Orchestrator) Assess(ctx context.Context, snap types.CandidateSnapshot, job types.JobRequirement) (types.AssessmentResult, error) {
	start := time.Now()

	if o.cfg.PrimaryMethod == types.MethodRuleBased {
		result := o.engine.Assess(snap, job)
		result.ProcessingTime = time.Since(start)
		o.logResult(result)
		return result, nil
	}

	var result types.AssessmentResult
	err := errScorerNotConfigured
	if o.external != nil {
		result, err = o.external.Assess(ctx, snap, job)
	}
	if err == nil {
		result.ProcessingTime = time.Since(start)
		o.logResult(result)
		return result, nil
	}

	if !o.cfg.FallbackEnabled {
		return types.AssessmentResult{}, fmt.Errorf("external assessment failed with fallback disabled: %w", err)
	}

	o.log.Warn("external assessment failed, falling back to rule-based engine",
		zap.String("candidate_id", snap.CandidateID.String()),
		zap.String("job_id", job.JobID.String()),
		zap.Error(err))

	result = o.engine.Assess(snap, job)
	result.MethodUsed = types.MethodExternalFallback
	result.FallbackReason = err.Error()
	result.ProcessingTime = time.Since(start)
	o.logResult(result)
	return result, nil
}

func (o *Orchestrator) logResult(r types.AssessmentResult) {
	o.log.Info("assessment complete",
		zap.String("candidate_id", r.CandidateID.String()),
		zap.String("job_id", r.JobID.String()),
		zap.Int("total_score", r.TotalScore),
		zap.String("recommendation", string(r.Recommendation)),
		zap.String("method", string(r.MethodUsed)),
		zap.Duration("processing_time", r.ProcessingTime))
}
