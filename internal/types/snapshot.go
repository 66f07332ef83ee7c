// Package types provides type definitions for structured data used throughout the assessment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// NeutralCreditScore is substituted when a candidate has no credit score on file.
const NeutralCreditScore = 50

// SkillRecord is one skill a candidate claims, with verification state.
type SkillRecord struct {
	Name            string  `json:"name"`
	YearsExperience float64 `json:"years_experience"`
	Verified        bool    `json:"verified"`
}

// WorkEntry is one job in a candidate's work history.
type WorkEntry struct {
	Title     string     `json:"title"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"` // nil while the job is ongoing
	IsCurrent bool       `json:"is_current"`
}

// TenureMonths returns the length of the work entry in months, using now for
// ongoing jobs. Entries with an end before their start contribute zero.
func (w WorkEntry) TenureMonths(now time.Time) float64 {
	end := now
	if w.End != nil {
		end = *w.End
	}
	months := end.Sub(w.Start).Hours() / 24 / 30
	if months < 0 {
		return 0
	}
	return months
}

// TestOutcome is the result of one completed skill test, as consumed by the
// assessment-history dimension.
type TestOutcome struct {
	SkillName   string    `json:"skill_name"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completed_at"`
}

// Reliability holds the abuse-report counters attached to a candidate.
type Reliability struct {
	FalseAccusationCount int `json:"false_accusation_count"`
	ConfirmedAbuseCount  int `json:"confirmed_abuse_count"`
}

// CandidateSnapshot is the aggregated, read-only view of one candidate at
// scoring time. It is built per scoring call and never mutated.
type CandidateSnapshot struct {
	CandidateID  uuid.UUID     `json:"candidate_id"`
	Skills       []SkillRecord `json:"skills"`
	WorkHistory  []WorkEntry   `json:"work_history"`
	TestOutcomes []TestOutcome `json:"test_outcomes"`
	Reliability  Reliability   `json:"reliability"`
	CreditScore  *int          `json:"credit_score,omitempty"` // nil means not on file
}

// EffectiveCreditScore returns the credit score, or the neutral midpoint when
// none is on file.
func (s *CandidateSnapshot) EffectiveCreditScore() int {
	if s.CreditScore == nil {
		return NeutralCreditScore
	}
	return *s.CreditScore
}

// ExperienceMonths returns the candidate's total work experience in months.
func (s *CandidateSnapshot) ExperienceMonths(now time.Time) float64 {
	var total float64
	for _, w := range s.WorkHistory {
		total += w.TenureMonths(now)
	}
	return total
}

// SkillNames returns the candidate's skill names in declaration order.
func (s *CandidateSnapshot) SkillNames() []string {
	names := make([]string, 0, len(s.Skills))
	for _, sk := range s.Skills {
		names = append(names, sk.Name)
	}
	return names
}
