package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recommendation is the hiring recommendation bucket for an assessed candidate.
type Recommendation string

const (
	StronglyRecommended Recommendation = "STRONGLY_RECOMMENDED"
	TakeAChance         Recommendation = "TAKE_A_CHANCE"
	Risky               Recommendation = "RISKY"
	NotRecommended      Recommendation = "NOT_RECOMMENDED"
)

// ParseRecommendation converts a raw string to a Recommendation, returning an
// error for unknown values.
func ParseRecommendation(s string) (Recommendation, error) {
	r := Recommendation(s)
	switch r {
	case StronglyRecommended, TakeAChance, Risky, NotRecommended:
		return r, nil
	}
	return "", fmt.Errorf("unknown recommendation %q", s)
}

// Confidence expresses how certain the scorer is about its recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ParseConfidence converts a raw string to a Confidence, returning an error
// for unknown values.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(s)
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c, nil
	}
	return "", fmt.Errorf("unknown confidence %q", s)
}

// AssessmentMethod records which scoring path produced a result.
type AssessmentMethod string

const (
	MethodRuleBased        AssessmentMethod = "rule_based"
	MethodExternal         AssessmentMethod = "external"
	MethodExternalFallback AssessmentMethod = "external_fallback_to_rule_based"
)

// Dimension is one weighted factor in the hiring-assessment model.
type Dimension string

const (
	DimensionSkills            Dimension = "skills"
	DimensionExperience        Dimension = "experience"
	DimensionAssessmentHistory Dimension = "assessment_history"
	DimensionReliability       Dimension = "reliability"
	DimensionCreditScore       Dimension = "credit_score"
)

// Dimensions lists all assessment dimensions in display order.
var Dimensions = []Dimension{
	DimensionSkills,
	DimensionExperience,
	DimensionAssessmentHistory,
	DimensionReliability,
	DimensionCreditScore,
}

// DimensionDetail is the explanatory payload for one scored dimension. Each
// dimension has a fixed record so every explanatory field is statically known.
type DimensionDetail interface {
	isDimensionDetail()
}

// SkillsDetail explains the skills dimension score.
type SkillsDetail struct {
	MatchedSkills     int      `json:"matched_skills"`
	TotalRequired     int      `json:"total_required"`
	VerifiedSkills    int      `json:"verified_skills"`
	AverageExperience float64  `json:"average_experience"`
	SkillGaps         []string `json:"skill_gaps"`
	MatchPercentage   int      `json:"match_percentage"`
	VerificationBonus int      `json:"verification_bonus"`
	ExperienceBonus   int      `json:"experience_bonus"`
}

// ExperienceDetail explains the experience dimension score.
type ExperienceDetail struct {
	TotalJobs             int     `json:"total_jobs"`
	TotalExperienceMonths int     `json:"total_experience_months"`
	TotalExperienceYears  float64 `json:"total_experience_years"`
	AverageTenureMonths   int     `json:"average_tenure_months"`
	JobStability          string  `json:"job_stability"`
	CurrentEmployment     bool    `json:"current_employment"`
}

// HistoryDetail explains the assessment-history dimension score.
type HistoryDetail struct {
	TotalTests   int    `json:"total_tests"`
	AverageScore int    `json:"average_score"`
	PassedTests  int    `json:"passed_tests"`
	FailedTests  int    `json:"failed_tests"`
	PassRate     int    `json:"pass_rate"`
	Trend        string `json:"trend"`
}

// ReliabilityDetail explains the reliability dimension score.
type ReliabilityDetail struct {
	FalseAccusations  int    `json:"false_accusations"`
	ConfirmedAbuse    int    `json:"confirmed_abuse"`
	ReliabilityRating string `json:"reliability_rating"`
	RiskLevel         string `json:"risk_level"`
}

// CreditDetail explains the credit-score dimension score.
type CreditDetail struct {
	CreditScore     *int   `json:"credit_score"` // nil when not on file
	Responsibility  string `json:"responsibility"`
	ScoreRangeLabel string `json:"score_range"`
}

func (SkillsDetail) isDimensionDetail()      {}
func (ExperienceDetail) isDimensionDetail()  {}
func (HistoryDetail) isDimensionDetail()     {}
func (ReliabilityDetail) isDimensionDetail() {}
func (CreditDetail) isDimensionDetail()      {}

// DimensionScore is one dimension's contribution to the total.
type DimensionScore struct {
	Score  int             `json:"score"`  // 0-100
	Weight float64         `json:"weight"` // fraction of the total, e.g. 0.30
	Detail DimensionDetail `json:"detail,omitempty"`
}

// AssessmentResult is the outcome of scoring one candidate against one job.
type AssessmentResult struct {
	CandidateID    uuid.UUID                    `json:"candidate_id"`
	JobID          uuid.UUID                    `json:"job_id"`
	TotalScore     int                          `json:"total_score"` // 0-100
	Recommendation Recommendation               `json:"recommendation"`
	Confidence     Confidence                   `json:"confidence"`
	Breakdown      map[Dimension]DimensionScore `json:"breakdown"`
	Strengths      []string                     `json:"strengths"`
	Concerns       []string                     `json:"concerns"`
	Suggestions    []string                     `json:"suggestions"`
	MethodUsed     AssessmentMethod             `json:"method_used"`
	FallbackReason string                       `json:"fallback_reason,omitempty"`
	ProcessingTime time.Duration                `json:"processing_time_ns,omitempty"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}
