package types

import "github.com/google/uuid"

// SubScores carries the six weighted components of a job recommendation,
// each scaled to 0-100.
type SubScores struct {
	SkillMatch      int `json:"skill_match"`
	LocationMatch   int `json:"location_match"`
	SalaryMatch     int `json:"salary_match"`
	ExperienceMatch int `json:"experience_match"`
	EmployerQuality int `json:"employer_quality"`
	WageFairness    int `json:"wage_fairness"`
}

// RecommendationScore is one ranked job recommendation for a candidate.
// Score is penalty-adjusted and never exceeds RawScore.
type RecommendationScore struct {
	JobID     uuid.UUID `json:"job_id"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`     // final, 0-100
	RawScore  int       `json:"raw_score"` // pre-penalty weighted sum
	SubScores SubScores `json:"sub_scores"`
	Reasons   []string  `json:"reasons"`
	Warnings  []string  `json:"warnings"`
}
