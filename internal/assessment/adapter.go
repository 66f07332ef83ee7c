package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vishaaldeep/sahayak2-sub000/internal/llm"
	"github.com/vishaaldeep/sahayak2-sub000/internal/prompts"
	"github.com/vishaaldeep/sahayak2-sub000/internal/schemas"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// DefaultExternalTimeout bounds one external scoring call.
const DefaultExternalTimeout = 30 * time.Second

// ExternalError wraps a failure on the external scoring path so the
// orchestrator can record the reason when it falls back.
type ExternalError struct {
	Stage string // "generate", "validate", "parse"
	Err   error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("external scorer %s: %v", e.Stage, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// externalReply mirrors the JSON contract the external scorer must honor.
// Schema validation runs first; the validator tags re-check ranges and enums
// after parsing so no out-of-band value survives into a result.
type externalReply struct {
	OverallRecommendation string   `json:"overall_recommendation" validate:"required,oneof=STRONGLY_RECOMMENDED TAKE_A_CHANCE RISKY NOT_RECOMMENDED"`
	ConfidenceLevel       string   `json:"confidence_level" validate:"required,oneof=High Medium Low"`
	TotalScore            float64  `json:"total_score" validate:"min=0,max=100"`
	CategoryScores        struct {
		Skills            float64 `json:"skills" validate:"min=0,max=100"`
		Experience        float64 `json:"experience" validate:"min=0,max=100"`
		AssessmentHistory float64 `json:"assessment_history" validate:"min=0,max=100"`
		Reliability       float64 `json:"reliability" validate:"min=0,max=100"`
		CreditScore       float64 `json:"credit_score" validate:"min=0,max=100"`
	} `json:"category_scores"`
	Strengths   []string `json:"strengths"`
	Concerns    []string `json:"concerns"`
	Suggestions []string `json:"suggestions"`
}

// ExternalScorer scores candidates through a text-generating model. It builds
// a structured profile prompt, demands a JSON reply, and refuses anything that
// does not pass the reply schema.
type ExternalScorer struct {
	client   llm.Client
	weights  Weights
	timeout  time.Duration
	validate *validator.Validate
	now      func() time.Time
}

// ExternalScorerOption customizes an ExternalScorer.
type ExternalScorerOption func(*ExternalScorer)

// WithExternalTimeout overrides the per-call deadline.
func WithExternalTimeout(d time.Duration) ExternalScorerOption {
	return func(s *ExternalScorer) { s.timeout = d }
}

// WithExternalClock injects the time source used for result timestamps.
func WithExternalClock(now func() time.Time) ExternalScorerOption {
	return func(s *ExternalScorer) { s.now = now }
}

// NewExternalScorer creates a scorer backed by the given client. The weights
// are only echoed into the result breakdown; the external model decides the
// scores themselves.
func NewExternalScorer(client llm.Client, weights Weights, opts ...ExternalScorerOption) *ExternalScorer {
	s := &ExternalScorer{
		client:   client,
		weights:  weights,
		timeout:  DefaultExternalTimeout,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores one candidate against one job via the external model.
func (s *ExternalScorer) Assess(ctx context.Context, snap types.CandidateSnapshot, job types.JobRequirement) (types.AssessmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt, err := s.buildPrompt(snap, job)
	if err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "generate", Err: err}
	}

	raw, err := s.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "generate", Err: err}
	}

	if err := schemas.ValidateExternalReply(raw); err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "validate", Err: err}
	}

	var reply externalReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "parse", Err: err}
	}
	if err := s.validate.Struct(&reply); err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "validate", Err: err}
	}

	return s.toResult(reply, snap, job)
}

func (s *ExternalScorer) toResult(reply externalReply, snap types.CandidateSnapshot, job types.JobRequirement) (types.AssessmentResult, error) {
	recommendation, err := types.ParseRecommendation(reply.OverallRecommendation)
	if err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "parse", Err: err}
	}
	confidence, err := types.ParseConfidence(reply.ConfidenceLevel)
	if err != nil {
		return types.AssessmentResult{}, &ExternalError{Stage: "parse", Err: err}
	}

	cs := reply.CategoryScores
	breakdown := map[types.Dimension]types.DimensionScore{
		types.DimensionSkills:            {Score: int(math.Round(cs.Skills)), Weight: s.weights.Skills},
		types.DimensionExperience:        {Score: int(math.Round(cs.Experience)), Weight: s.weights.Experience},
		types.DimensionAssessmentHistory: {Score: int(math.Round(cs.AssessmentHistory)), Weight: s.weights.History},
		types.DimensionReliability:       {Score: int(math.Round(cs.Reliability)), Weight: s.weights.Reliability},
		types.DimensionCreditScore:       {Score: int(math.Round(cs.CreditScore)), Weight: s.weights.CreditScore},
	}

	return types.AssessmentResult{
		CandidateID:    snap.CandidateID,
		JobID:          job.JobID,
		TotalScore:     int(math.Round(reply.TotalScore)),
		Recommendation: recommendation,
		Confidence:     confidence,
		Breakdown:      breakdown,
		Strengths:      emptyIfNil(reply.Strengths),
		Concerns:       emptyIfNil(reply.Concerns),
		Suggestions:    emptyIfNil(reply.Suggestions),
		MethodUsed:     types.MethodExternal,
		GeneratedAt:    s.now(),
	}, nil
}

// buildPrompt assembles the scoring prompt from the externalized templates and
// the candidate profile.
func (s *ExternalScorer) buildPrompt(snap types.CandidateSnapshot, job types.JobRequirement) (string, error) {
	systemRole, err := prompts.Get("assessment.json", "system-role")
	if err != nil {
		return "", err
	}
	header, err := prompts.Get("assessment.json", "profile-header")
	if err != nil {
		return "", err
	}
	contract, err := prompts.Get("assessment.json", "reply-contract")
	if err != nil {
		return "", err
	}

	header = prompts.Format(header, map[string]string{
		"JobTitle":           job.Title,
		"RequiredSkills":     strings.Join(job.RequiredSkills, ", "),
		"ExperienceRequired": fmt.Sprintf("%g", job.ExperienceYearsRequired),
		"SalaryRange":        fmt.Sprintf("%.0f-%.0f", job.SalaryMin, job.SalaryMax),
	})

	var sb strings.Builder
	sb.WriteString(systemRole)
	sb.WriteString("\n\n")
	sb.WriteString(header)
	sb.WriteString("\n\n")
	writeProfileSections(&sb, snap, s.now())
	sb.WriteString("\n")
	sb.WriteString(contract)
	return sb.String(), nil
}

func writeProfileSections(sb *strings.Builder, snap types.CandidateSnapshot, now time.Time) {
	sb.WriteString("CANDIDATE PROFILE:\n")

	sb.WriteString("Skills:\n")
	if len(snap.Skills) == 0 {
		sb.WriteString("  (none on file)\n")
	}
	for _, sk := range snap.Skills {
		status := "unverified"
		if sk.Verified {
			status = "verified"
		}
		fmt.Fprintf(sb, "  - %s (%.1f years, %s)\n", sk.Name, sk.YearsExperience, status)
	}

	sb.WriteString("Work History:\n")
	if len(snap.WorkHistory) == 0 {
		sb.WriteString("  (none on file)\n")
	}
	for _, w := range snap.WorkHistory {
		state := "ended"
		if w.IsCurrent || w.End == nil {
			state = "current"
		}
		fmt.Fprintf(sb, "  - %s, %.0f months (%s)\n", w.Title, w.TenureMonths(now), state)
	}

	sb.WriteString("Test Results:\n")
	if len(snap.TestOutcomes) == 0 {
		sb.WriteString("  (no tests taken)\n")
	}
	for _, o := range snap.TestOutcomes {
		verdict := "failed"
		if o.Passed {
			verdict = "passed"
		}
		fmt.Fprintf(sb, "  - %s: %d%% (%s)\n", o.SkillName, o.Percentage, verdict)
	}

	fmt.Fprintf(sb, "Reliability: %d confirmed abuse reports, %d false accusations\n",
		snap.Reliability.ConfirmedAbuseCount, snap.Reliability.FalseAccusationCount)

	if snap.CreditScore != nil {
		fmt.Fprintf(sb, "Credit Score: %d/100\n", *snap.CreditScore)
	} else {
		sb.WriteString("Credit Score: not on file\n")
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
