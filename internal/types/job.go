package types

import "github.com/google/uuid"

// JobRequirement describes the candidate-facing requirements of one job.
type JobRequirement struct {
	JobID                   uuid.UUID `json:"job_id"`
	Title                   string    `json:"title"`
	RequiredSkills          []string  `json:"required_skills"`
	PreferredSkills         []string  `json:"preferred_skills,omitempty"`
	ExperienceYearsRequired float64   `json:"experience_years_required"`
	SalaryMin               float64   `json:"salary_min"`
	SalaryMax               float64   `json:"salary_max"`
	Location                string    `json:"location,omitempty"`
}

// MidSalary returns the midpoint of the advertised salary band.
func (j JobRequirement) MidSalary() float64 {
	return (j.SalaryMin + j.SalaryMax) / 2
}

// EmployerMetrics are the aggregate quality signals for a job's poster,
// supplied by an external collaborator.
type EmployerMetrics struct {
	AvgRating           float64 `json:"avg_rating"` // 0-5
	RatingCount         int     `json:"rating_count"`
	PendingReportCount  int     `json:"pending_report_count"`
	VerifiedReportCount int     `json:"verified_report_count"`
	IsVerified          bool    `json:"is_verified"`
	HasTaxID            bool    `json:"has_tax_id"`
	AvgHistoricalWage   float64 `json:"avg_historical_wage"`
	JobsPostedCount     int     `json:"jobs_posted_count"`
}

// JobCandidate pairs a job with its employer's metrics for ranking.
type JobCandidate struct {
	Job      JobRequirement  `json:"job"`
	Employer EmployerMetrics `json:"employer"`
}
