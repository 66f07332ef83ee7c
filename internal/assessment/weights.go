// Package assessment implements the candidate hiring assessment: a deterministic
// rule-based engine, an adapter for the external text-generating scorer, and the
// orchestrator that arbitrates between them.
package assessment

import (
	"fmt"
	"math"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// Weights are the per-dimension fractions of the total score. They must sum
// to 1.
type Weights struct {
	Skills      float64 `json:"skills"`
	Experience  float64 `json:"experience"`
	History     float64 `json:"assessment_history"`
	Reliability float64 `json:"reliability"`
	CreditScore float64 `json:"credit_score"`
}

// DefaultWeights returns the production weighting: skills 30%, experience 25%,
// assessment history 20%, reliability 15%, credit score 10%.
func DefaultWeights() Weights {
	return Weights{
		Skills:      0.30,
		Experience:  0.25,
		History:     0.20,
		Reliability: 0.15,
		CreditScore: 0.10,
	}
}

// For returns the weight for a dimension.
func (w Weights) For(d types.Dimension) float64 {
	switch d {
	case types.DimensionSkills:
		return w.Skills
	case types.DimensionExperience:
		return w.Experience
	case types.DimensionAssessmentHistory:
		return w.History
	case types.DimensionReliability:
		return w.Reliability
	case types.DimensionCreditScore:
		return w.CreditScore
	}
	return 0
}

// Validate checks that the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	sum := w.Skills + w.Experience + w.History + w.Reliability + w.CreditScore
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("assessment weights must sum to 1, got %.4f", sum)
	}
	for _, v := range []float64{w.Skills, w.Experience, w.History, w.Reliability, w.CreditScore} {
		if v < 0 {
			return fmt.Errorf("assessment weights must be non-negative")
		}
	}
	return nil
}

// Thresholds are the total-score cutoffs for the recommendation buckets.
type Thresholds struct {
	StronglyRecommended int `json:"strongly_recommended"` // total >= this
	TakeAChance         int `json:"take_a_chance"`
	Risky               int `json:"risky"`
}

// DefaultThresholds returns the production cutoffs: 75 / 60 / 40.
func DefaultThresholds() Thresholds {
	return Thresholds{StronglyRecommended: 75, TakeAChance: 60, Risky: 40}
}

// Validate checks that the cutoffs are ordered and within [0,100].
func (t Thresholds) Validate() error {
	if t.StronglyRecommended <= t.TakeAChance || t.TakeAChance <= t.Risky {
		return fmt.Errorf("thresholds must be strictly descending: %d/%d/%d",
			t.StronglyRecommended, t.TakeAChance, t.Risky)
	}
	if t.Risky < 0 || t.StronglyRecommended > 100 {
		return fmt.Errorf("thresholds must lie within [0,100]")
	}
	return nil
}

// clamp100 bounds a score to [0,100].
func clamp100(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}
