package assessment

import (
	"math"
	"strings"
	"time"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// PassingPercentage is the test score at or above which an outcome counts as
// passed for the assessment-history dimension.
const PassingPercentage = 70

// Engine is the deterministic rule-based assessment engine. Identical inputs
// produce identical results; it is the authoritative fallback behavior behind
// the external scorer.
type Engine struct {
	weights    Weights
	thresholds Thresholds
	now        func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock injects the time source used for tenure math. Tests use a fixed
// clock to make experience scoring reproducible.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an Engine with the given weights and thresholds.
func NewEngine(weights Weights, thresholds Thresholds, opts ...EngineOption) *Engine {
	e := &Engine{weights: weights, thresholds: thresholds, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEngine returns an Engine with production weights and thresholds.
func NewDefaultEngine(opts ...EngineOption) *Engine {
	return NewEngine(DefaultWeights(), DefaultThresholds(), opts...)
}

// Assess scores one candidate snapshot against one job requirement. The total
// is the weighted sum of the five dimension scores, clamped to [0,100].
//
// The confidence mapping is intentionally asymmetric: High at both extremes,
// Medium/Low in between. This reproduces observed product behavior and is
// pending product sign-off, so do not "fix" it here.
func (e *Engine) Assess(snap types.CandidateSnapshot, job types.JobRequirement) types.AssessmentResult {
	now := e.now()

	skills := e.assessSkills(snap, job)
	experience := e.assessExperience(snap, now)
	history := e.assessHistory(snap)
	reliability := e.assessReliability(snap)
	credit := e.assessCredit(snap)

	breakdown := map[types.Dimension]types.DimensionScore{
		types.DimensionSkills:            skills,
		types.DimensionExperience:        experience,
		types.DimensionAssessmentHistory: history,
		types.DimensionReliability:       reliability,
		types.DimensionCreditScore:       credit,
	}

	var weighted float64
	for dim, ds := range breakdown {
		weighted += float64(ds.Score) * e.weights.For(dim)
	}
	total := int(math.Round(clamp100(weighted)))

	recommendation, confidence, suggestions := e.recommend(total)

	return types.AssessmentResult{
		CandidateID:    snap.CandidateID,
		JobID:          job.JobID,
		TotalScore:     total,
		Recommendation: recommendation,
		Confidence:     confidence,
		Breakdown:      breakdown,
		Strengths:      identifyStrengths(breakdown),
		Concerns:       identifyConcerns(breakdown),
		Suggestions:    suggestions,
		MethodUsed:     types.MethodRuleBased,
		GeneratedAt:    now,
	}
}

// assessSkills scores the skills dimension: required-skill match percentage
// plus bonuses for verification (up to 20) and per-skill experience (up to 20),
// capped at 100. A job with no required skills yields a neutral 50.
func (e *Engine) assessSkills(snap types.CandidateSnapshot, job types.JobRequirement) types.DimensionScore {
	weight := e.weights.Skills

	if len(job.RequiredSkills) == 0 {
		return types.DimensionScore{
			Score:  50,
			Weight: weight,
			Detail: types.SkillsDetail{SkillGaps: []string{}},
		}
	}

	if len(snap.Skills) == 0 {
		gaps := append([]string(nil), job.RequiredSkills...)
		return types.DimensionScore{
			Score:  0,
			Weight: weight,
			Detail: types.SkillsDetail{
				TotalRequired: len(job.RequiredSkills),
				SkillGaps:     gaps,
			},
		}
	}

	bySkill := make(map[string]types.SkillRecord, len(snap.Skills))
	for _, sk := range snap.Skills {
		bySkill[strings.ToLower(strings.TrimSpace(sk.Name))] = sk
	}

	var matched, verified int
	var totalYears float64
	gaps := []string{}
	for _, required := range job.RequiredSkills {
		sk, ok := bySkill[strings.ToLower(strings.TrimSpace(required))]
		if !ok {
			gaps = append(gaps, required)
			continue
		}
		matched++
		totalYears += sk.YearsExperience
		if sk.Verified {
			verified++
		}
	}

	matchPct := float64(matched) / float64(len(job.RequiredSkills)) * 100
	verificationBonus := float64(verified) / math.Max(float64(matched), 1) * 20
	experienceBonus := math.Min(totalYears/math.Max(float64(matched), 1)*5, 20)
	score := clamp100(matchPct + verificationBonus + experienceBonus)

	avgExperience := 0.0
	if matched > 0 {
		avgExperience = totalYears / float64(matched)
	}

	return types.DimensionScore{
		Score:  int(math.Round(score)),
		Weight: weight,
		Detail: types.SkillsDetail{
			MatchedSkills:     matched,
			TotalRequired:     len(job.RequiredSkills),
			VerifiedSkills:    verified,
			AverageExperience: math.Round(avgExperience*10) / 10,
			SkillGaps:         gaps,
			MatchPercentage:   int(math.Round(matchPct)),
			VerificationBonus: int(math.Round(verificationBonus)),
			ExperienceBonus:   int(math.Round(experienceBonus)),
		},
	}
}

// assessExperience scores work history: up to 40 points for total years
// (10/year, 4+ years maxes it), a stability bonus from average tenure, +15 for
// current employment, and a multi-job bonus, capped at 100.
func (e *Engine) assessExperience(snap types.CandidateSnapshot, now time.Time) types.DimensionScore {
	weight := e.weights.Experience

	if len(snap.WorkHistory) == 0 {
		return types.DimensionScore{
			Score:  0,
			Weight: weight,
			Detail: types.ExperienceDetail{JobStability: "No experience"},
		}
	}

	var totalMonths float64
	currentlyEmployed := false
	for _, w := range snap.WorkHistory {
		totalMonths += w.TenureMonths(now)
		if w.IsCurrent || w.End == nil {
			currentlyEmployed = true
		}
	}

	jobCount := len(snap.WorkHistory)
	avgTenure := totalMonths / float64(jobCount)
	years := totalMonths / 12

	score := math.Min(years*10, 40)

	switch {
	case avgTenure >= 24:
		score += 20
	case avgTenure >= 12:
		score += 15
	case avgTenure >= 6:
		score += 10
	}

	if currentlyEmployed {
		score += 15
	}

	switch {
	case jobCount >= 3:
		score += 10
	case jobCount >= 2:
		score += 5
	}

	return types.DimensionScore{
		Score:  int(math.Round(clamp100(score))),
		Weight: weight,
		Detail: types.ExperienceDetail{
			TotalJobs:             jobCount,
			TotalExperienceMonths: int(math.Round(totalMonths)),
			TotalExperienceYears:  math.Round(years*10) / 10,
			AverageTenureMonths:   int(math.Round(avgTenure)),
			JobStability:          stabilityRating(avgTenure),
			CurrentEmployment:     currentlyEmployed,
		},
	}
}

func stabilityRating(avgTenureMonths float64) string {
	switch {
	case avgTenureMonths >= 24:
		return "Excellent"
	case avgTenureMonths >= 12:
		return "Good"
	case avgTenureMonths >= 6:
		return "Fair"
	}
	return "Concerning"
}

// assessHistory scores completed tests: average percentage contributes up to
// 80 points, and the pass rate (pass = >=70%) adds a tiered bonus. A candidate
// with no completed tests gets a neutral 50.
func (e *Engine) assessHistory(snap types.CandidateSnapshot) types.DimensionScore {
	weight := e.weights.History

	if len(snap.TestOutcomes) == 0 {
		return types.DimensionScore{
			Score:  50,
			Weight: weight,
			Detail: types.HistoryDetail{Trend: "No tests taken"},
		}
	}

	var sum, passed int
	for _, o := range snap.TestOutcomes {
		sum += o.Percentage
		if o.Percentage >= PassingPercentage {
			passed++
		}
	}
	total := len(snap.TestOutcomes)
	avg := float64(sum) / float64(total)
	passRate := float64(passed) / float64(total) * 100

	score := math.Min(avg, 80)
	switch {
	case passRate >= 90:
		score += 20
	case passRate >= 75:
		score += 15
	case passRate >= 60:
		score += 10
	case passRate >= 50:
		score += 5
	}

	return types.DimensionScore{
		Score:  int(math.Round(clamp100(score))),
		Weight: weight,
		Detail: types.HistoryDetail{
			TotalTests:   total,
			AverageScore: int(math.Round(avg)),
			PassedTests:  passed,
			FailedTests:  total - passed,
			PassRate:     int(math.Round(passRate)),
			Trend:        performanceTrend(avg),
		},
	}
}

func performanceTrend(avg float64) string {
	switch {
	case avg >= 85:
		return "Excellent performer"
	case avg >= 75:
		return "Good performer"
	case avg >= 65:
		return "Average performer"
	}
	return "Below average performer"
}

// assessReliability starts at 100 and deducts 30 per confirmed abuse report
// and 5 per false accusation, floored at 0.
func (e *Engine) assessReliability(snap types.CandidateSnapshot) types.DimensionScore {
	r := snap.Reliability
	score := 100 - 30*r.ConfirmedAbuseCount - 5*r.FalseAccusationCount
	if score < 0 {
		score = 0
	}

	riskLevel := "Low"
	switch {
	case r.ConfirmedAbuseCount > 0:
		riskLevel = "High"
	case r.FalseAccusationCount > 2:
		riskLevel = "Medium"
	}

	return types.DimensionScore{
		Score:  score,
		Weight: e.weights.Reliability,
		Detail: types.ReliabilityDetail{
			FalseAccusations:  r.FalseAccusationCount,
			ConfirmedAbuse:    r.ConfirmedAbuseCount,
			ReliabilityRating: reliabilityRating(score),
			RiskLevel:         riskLevel,
		},
	}
}

func reliabilityRating(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Concerning"
	}
	return "High Risk"
}

// assessCredit maps the 0-100 credit score straight through, substituting the
// neutral midpoint when none is on file.
func (e *Engine) assessCredit(snap types.CandidateSnapshot) types.DimensionScore {
	score := snap.EffectiveCreditScore()

	var responsibility, rangeLabel string
	switch {
	case snap.CreditScore == nil:
		responsibility = "Unknown"
		rangeLabel = "N/A"
	case score >= 80:
		responsibility = "Excellent"
		rangeLabel = "Excellent (80-100)"
	case score >= 60:
		responsibility = "Good"
		rangeLabel = "Good (60-79)"
	case score >= 40:
		responsibility = "Fair"
		rangeLabel = "Fair (40-59)"
	default:
		responsibility = "Poor"
		rangeLabel = "Poor (0-39)"
	}

	return types.DimensionScore{
		Score:  score,
		Weight: e.weights.CreditScore,
		Detail: types.CreditDetail{
			CreditScore:     snap.CreditScore,
			Responsibility:  responsibility,
			ScoreRangeLabel: rangeLabel,
		},
	}
}

// recommend maps a total score to its bucket, confidence, and the employer
// suggestions for that bucket.
func (e *Engine) recommend(total int) (types.Recommendation, types.Confidence, []string) {
	switch {
	case total >= e.thresholds.StronglyRecommended:
		return types.StronglyRecommended, types.ConfidenceHigh, []string{
			"Candidate shows excellent qualifications across all areas",
			"Strong skills match with job requirements",
			"Reliable work history and good performance record",
			"Proceed with confidence to next hiring stage",
		}
	case total >= e.thresholds.TakeAChance:
		return types.TakeAChance, types.ConfidenceMedium, []string{
			"Candidate shows good potential with some areas for improvement",
			"Consider additional interview rounds to assess fit",
			"May benefit from training in specific skill areas",
			"Monitor performance closely during probation period",
		}
	case total >= e.thresholds.Risky:
		return types.Risky, types.ConfidenceLow, []string{
			"Candidate has significant gaps in required qualifications",
			"Consider only if no better candidates are available",
			"Extensive training and supervision will be required",
			"Implement strict probation period with clear milestones",
		}
	}
	return types.NotRecommended, types.ConfidenceHigh, []string{
		"Candidate does not meet minimum requirements for this position",
		"Significant concerns about reliability or performance",
		"High risk of poor job performance or workplace issues",
		"Recommend looking for alternative candidates",
	}
}

// strengthThreshold and the concern thresholds drive the deterministic
// strength/concern listing; no free text is generated on this path.
const (
	strengthThreshold           = 80
	concernThreshold            = 60
	reliabilityConcernThreshold = 80
)

func identifyStrengths(breakdown map[types.Dimension]types.DimensionScore) []string {
	strengths := []string{}
	if breakdown[types.DimensionSkills].Score >= strengthThreshold {
		strengths = append(strengths, "Excellent skills match with job requirements")
	}
	if breakdown[types.DimensionExperience].Score >= strengthThreshold {
		strengths = append(strengths, "Strong work experience and job stability")
	}
	if breakdown[types.DimensionAssessmentHistory].Score >= strengthThreshold {
		strengths = append(strengths, "Excellent test performance history")
	}
	if breakdown[types.DimensionReliability].Score >= strengthThreshold {
		strengths = append(strengths, "High reliability with no concerning reports")
	}
	if breakdown[types.DimensionCreditScore].Score >= strengthThreshold {
		strengths = append(strengths, "Excellent financial responsibility")
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Candidate shows basic qualifications for the role")
	}
	return strengths
}

func identifyConcerns(breakdown map[types.Dimension]types.DimensionScore) []string {
	concerns := []string{}
	if breakdown[types.DimensionSkills].Score < concernThreshold {
		concerns = append(concerns, "Significant skills gaps for job requirements")
	}
	if breakdown[types.DimensionExperience].Score < concernThreshold {
		concerns = append(concerns, "Limited or unstable work experience")
	}
	if breakdown[types.DimensionAssessmentHistory].Score < concernThreshold {
		concerns = append(concerns, "Poor test performance history")
	}
	if breakdown[types.DimensionReliability].Score < reliabilityConcernThreshold {
		concerns = append(concerns, "Reliability concerns due to abuse reports")
	}
	if breakdown[types.DimensionCreditScore].Score < concernThreshold {
		concerns = append(concerns, "Poor financial responsibility indicators")
	}
	return concerns
}
