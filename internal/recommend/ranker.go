// Package recommend ranks open jobs for one candidate with a weighted
// six-factor model plus employer safety penalties.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vishaaldeep/sahayak2-sub000/internal/notify"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// DefaultTopN is how many recommendations one run returns.
const DefaultTopN = 5

// maxParallelScores bounds the per-job scoring goroutines.
const maxParallelScores = 8

// SubWeights are the six factor weights, in percent of the final score.
type SubWeights struct {
	SkillMatch      float64
	LocationMatch   float64
	SalaryMatch     float64
	ExperienceMatch float64
	EmployerQuality float64
	WageFairness    float64
}

// DefaultSubWeights returns the production weighting: skills 30, location 15,
// salary 20, experience 10, employer quality 20, wage fairness 5.
func DefaultSubWeights() SubWeights {
	return SubWeights{
		SkillMatch:      30,
		LocationMatch:   15,
		SalaryMatch:     20,
		ExperienceMatch: 10,
		EmployerQuality: 20,
		WageFairness:    5,
	}
}

// Validate checks the weights sum to 100.
func (w SubWeights) Validate() error {
	sum := w.SkillMatch + w.LocationMatch + w.SalaryMatch + w.ExperienceMatch + w.EmployerQuality + w.WageFairness
	if math.Abs(sum-100) > 1e-9 {
		return fmt.Errorf("recommendation weights must sum to 100, got %.2f", sum)
	}
	return nil
}

// SeekerProfile is the candidate side of a ranking run: the snapshot plus the
// expectation inputs the snapshot does not carry.
type SeekerProfile struct {
	Snapshot         types.CandidateSnapshot
	City             string
	ExpectedSalary   float64 // monthly, same unit as job salary bands
	ExperienceMonths float64
}

// Insights are aggregate counts over one ranking run.
type Insights struct {
	HighMatchJobs        int `json:"high_match_jobs"` // final score >= 80
	EmployersWithWarning int `json:"employers_with_warnings"`
}

// Result is the outcome of one ranking run.
type Result struct {
	Recommendations []types.RecommendationScore `json:"recommendations"`
	Insights        Insights                    `json:"insights"`
}

// Ranker scores a candidate against a pool of jobs. Scoring is pure per job;
// jobs are scored in parallel and results keep the pool's stable order for
// equal scores.
type Ranker struct {
	weights  SubWeights
	topN     int
	notifier notify.Notifier
	log      *zap.Logger
}

// RankerOption customizes a Ranker.
type RankerOption func(*Ranker)

// WithTopN overrides how many recommendations are returned.
func WithTopN(n int) RankerOption {
	return func(r *Ranker) { r.topN = n }
}

// WithNotifier sets the port that announces the top match after a run.
func WithNotifier(n notify.Notifier) RankerOption {
	return func(r *Ranker) { r.notifier = n }
}

// NewRanker creates a Ranker with the given weights.
func NewRanker(weights SubWeights, log *zap.Logger, opts ...RankerOption) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Ranker{weights: weights, topN: DefaultTopN, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Rank scores every job in the pool for the seeker, sorts descending by final
// score with ties keeping pool order, truncates to the configured top N, and
// announces the top match when a notifier is configured.
func (r *Ranker) Rank(ctx context.Context, seeker SeekerProfile, pool []types.JobCandidate) (Result, error) {
	scored := make([]types.RecommendationScore, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelScores)
	for i, jc := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = r.scoreJob(seeker, jc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	insights := Insights{}
	for _, rec := range scored {
		if rec.Score >= 80 {
			insights.HighMatchJobs++
		}
		if len(rec.Warnings) > 0 {
			insights.EmployersWithWarning++
		}
	}

	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}

	r.log.Info("job recommendations ranked",
		zap.String("candidate_id", seeker.Snapshot.CandidateID.String()),
		zap.Int("pool_size", len(pool)),
		zap.Int("returned", len(scored)),
		zap.Int("high_match_jobs", insights.HighMatchJobs))

	if r.notifier != nil && len(scored) > 0 {
		err := r.notifier.NotifyTopMatch(ctx, notify.TopMatch{
			CandidateID: seeker.Snapshot.CandidateID,
			Job:         scored[0],
			TotalFound:  len(scored),
		})
		if err != nil {
			// Announcements are best effort; a failed delivery does not
			// invalidate the ranking.
			r.log.Warn("top match notification failed", zap.Error(err))
		}
	}

	return Result{Recommendations: scored, Insights: insights}, nil
}

// scoreJob computes one job's weighted score, penalties, reasons, and
// warnings.
func (r *Ranker) scoreJob(seeker SeekerProfile, jc types.JobCandidate) types.RecommendationScore {
	job := jc.Job
	metrics := jc.Employer

	reasons := []string{}
	warnings := []string{}

	skillMatch := skillMatchScore(job, seeker.Snapshot.SkillNames())
	switch {
	case skillMatch > 0.7:
		reasons = append(reasons, fmt.Sprintf("Strong skill match (%d%%)", int(math.Round(skillMatch*100))))
	case skillMatch > 0.4:
		reasons = append(reasons, fmt.Sprintf("Good skill match (%d%%)", int(math.Round(skillMatch*100))))
	}

	locationMatch := locationScore(job.Location, seeker.City)
	switch {
	case locationMatch > 0.8:
		reasons = append(reasons, "Excellent location match")
	case locationMatch > 0.5:
		reasons = append(reasons, "Good location match")
	}

	salaryMatch := salaryScore(job, seeker.ExpectedSalary)
	switch {
	case salaryMatch > 0.8:
		reasons = append(reasons, "Excellent salary offer")
	case salaryMatch > 0.6:
		reasons = append(reasons, "Good salary offer")
	}

	experienceMatch := experienceScore(job, seeker.ExperienceMonths)
	if experienceMatch > 0.8 {
		reasons = append(reasons, "Perfect experience level")
	}

	employerQuality := employerQualityScore(metrics)
	switch {
	case employerQuality > 0.8:
		reasons = append(reasons, "Excellent employer reputation")
	case employerQuality > 0.6:
		reasons = append(reasons, "Good employer reputation")
	case employerQuality < 0.4:
		warnings = append(warnings, "Employer has quality concerns")
	}

	wageFairness := wageFairnessScore(job, metrics, seeker.ExpectedSalary)
	switch {
	case wageFairness > 0.8:
		reasons = append(reasons, "Competitive wage offering")
	case wageFairness < 0.4:
		warnings = append(warnings, "Below market wage")
	}

	raw := skillMatch*r.weights.SkillMatch +
		locationMatch*r.weights.LocationMatch +
		salaryMatch*r.weights.SalaryMatch +
		experienceMatch*r.weights.ExperienceMatch +
		employerQuality*r.weights.EmployerQuality +
		wageFairness*r.weights.WageFairness

	final := raw
	switch {
	case metrics.VerifiedReportCount > 2:
		final *= 0.7
		warnings = append(warnings, "Employer has multiple verified abuse reports")
	case metrics.VerifiedReportCount > 0:
		final *= 0.85
		warnings = append(warnings, "Employer has verified abuse reports")
	}
	if metrics.PendingReportCount > 3 {
		final *= 0.9
		warnings = append(warnings, "Employer has multiple pending reports")
	}

	return types.RecommendationScore{
		JobID:    job.JobID,
		Title:    job.Title,
		Score:    int(math.Round(final)),
		RawScore: int(math.Round(raw)),
		SubScores: types.SubScores{
			SkillMatch:      int(math.Round(skillMatch * 100)),
			LocationMatch:   int(math.Round(locationMatch * 100)),
			SalaryMatch:     int(math.Round(salaryMatch * 100)),
			ExperienceMatch: int(math.Round(experienceMatch * 100)),
			EmployerQuality: int(math.Round(employerQuality * 100)),
			WageFairness:    int(math.Round(wageFairness * 100)),
		},
		Reasons:  reasons,
		Warnings: warnings,
	}
}

// skillMatchScore weighs coverage of required skills at 0.7 and overlap with
// the whole job skill set (required plus preferred) at 0.3. Matching is
// case-insensitive substring containment in either direction.
func skillMatchScore(job types.JobRequirement, userSkills []string) float64 {
	allJobSkills := make([]string, 0, len(job.RequiredSkills)+len(job.PreferredSkills))
	allJobSkills = append(allJobSkills, job.RequiredSkills...)
	allJobSkills = append(allJobSkills, job.PreferredSkills...)
	if len(allJobSkills) == 0 {
		return 0.5
	}

	matched := 0
	for _, js := range allJobSkills {
		if anySkillMatches(userSkills, js) {
			matched++
		}
	}
	requiredMatched := 0
	for _, rs := range job.RequiredSkills {
		if anySkillMatches(userSkills, rs) {
			requiredMatched++
		}
	}

	requiredScore := 1.0
	if len(job.RequiredSkills) > 0 {
		requiredScore = float64(requiredMatched) / float64(len(job.RequiredSkills))
	}
	overallScore := float64(matched) / float64(len(allJobSkills))

	return requiredScore*0.7 + overallScore*0.3
}

func anySkillMatches(userSkills []string, jobSkill string) bool {
	js := strings.ToLower(strings.TrimSpace(jobSkill))
	for _, us := range userSkills {
		u := strings.ToLower(strings.TrimSpace(us))
		if u == "" || js == "" {
			continue
		}
		if strings.Contains(js, u) || strings.Contains(u, js) {
			return true
		}
	}
	return false
}

// locationScore compares cities: exact 1.0, substring 0.8, shared word 0.6,
// otherwise 0.3. Missing data on either side is neutral.
func locationScore(jobCity, seekerCity string) float64 {
	if jobCity == "" || seekerCity == "" {
		return 0.5
	}
	jc := strings.ToLower(jobCity)
	sc := strings.ToLower(seekerCity)

	if jc == sc {
		return 1.0
	}
	if strings.Contains(jc, sc) || strings.Contains(sc, jc) {
		return 0.8
	}
	for _, word := range strings.Fields(jc) {
		if strings.Contains(sc, word) {
			return 0.6
		}
	}
	return 0.3
}

// salaryScore tiers the ratio of the job's mid salary to the seeker's
// expectation from 0.2 up to 1.0.
func salaryScore(job types.JobRequirement, expectedSalary float64) float64 {
	mid := job.MidSalary()
	if mid <= 0 {
		return 0.5
	}
	if expectedSalary <= 0 {
		expectedSalary = 10000
	}

	ratio := mid / expectedSalary
	switch {
	case ratio >= 1.5:
		return 1.0
	case ratio >= 1.2:
		return 0.9
	case ratio >= 1.0:
		return 0.8
	case ratio >= 0.8:
		return 0.6
	case ratio >= 0.6:
		return 0.4
	}
	return 0.2
}

// experienceScore tiers the seeker's experience against the requirement. A
// job with no stated requirement scores 0.8; heavy overqualification scores
// slightly below a perfect match.
func experienceScore(job types.JobRequirement, seekerMonths float64) float64 {
	requiredMonths := job.ExperienceYearsRequired * 12
	if requiredMonths <= 0 {
		return 0.8
	}

	ratio := seekerMonths / requiredMonths
	switch {
	case ratio >= 1.5:
		return 0.9
	case ratio >= 1.0:
		return 1.0
	case ratio >= 0.8:
		return 0.8
	case ratio >= 0.6:
		return 0.6
	}
	return 0.3
}

// employerQualityScore composes ratings, verification, report history, and
// posting history into 0-1, from a 0.5 base.
func employerQualityScore(m types.EmployerMetrics) float64 {
	score := 0.5

	if m.RatingCount > 0 {
		score += math.Min(m.AvgRating/5, 1) * 0.4
		switch {
		case m.RatingCount >= 10:
			score += 0.1
		case m.RatingCount >= 5:
			score += 0.05
		}
	}

	if m.IsVerified {
		score += 0.15
	}
	if m.HasTaxID {
		score += 0.15
	}

	if m.VerifiedReportCount == 0 && m.PendingReportCount == 0 {
		score += 0.3
	} else {
		penalty := float64(m.VerifiedReportCount)*0.1 + float64(m.PendingReportCount)*0.02
		score -= math.Min(penalty, 0.3)
	}

	if m.JobsPostedCount >= 5 {
		score += 0.05
	}

	return math.Max(0, math.Min(1, score))
}

// wageFairnessScore compares the job's mid salary against both the seeker's
// expectation and the employer's own historical average.
func wageFairnessScore(job types.JobRequirement, m types.EmployerMetrics, expectedSalary float64) float64 {
	mid := job.MidSalary()
	if mid <= 0 {
		return 0.3
	}
	if expectedSalary <= 0 {
		expectedSalary = 10000
	}

	score := 0.5

	ratio := mid / expectedSalary
	switch {
	case ratio >= 1.2:
		score += 0.3
	case ratio >= 1.0:
		score += 0.2
	case ratio >= 0.8:
		score += 0.1
	default:
		score -= 0.1
	}

	if m.AvgHistoricalWage > 0 {
		employerRatio := mid / m.AvgHistoricalWage
		switch {
		case employerRatio >= 1.1:
			score += 0.2
		case employerRatio >= 0.9:
			score += 0.1
		default:
			score -= 0.1
		}
	}

	return math.Max(0, math.Min(1, score))
}

// SkillGap is one skill the pool demands that the seeker lacks.
type SkillGap struct {
	Skill       string `json:"skill"`
	DemandCount int    `json:"demand_count"`
}

// IdentifySkillGaps lists the five most demanded required skills across the
// ranked jobs that the seeker does not have, most demanded first.
func IdentifySkillGaps(pool []types.JobCandidate, seekerSkills []string) []SkillGap {
	have := make(map[string]bool, len(seekerSkills))
	for _, s := range seekerSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	counts := make(map[string]int)
	var order []string
	for _, jc := range pool {
		for _, skill := range jc.Job.RequiredSkills {
			if have[strings.ToLower(strings.TrimSpace(skill))] {
				continue
			}
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 5 {
		order = order[:5]
	}

	gaps := make([]SkillGap, len(order))
	for i, skill := range order {
		gaps[i] = SkillGap{Skill: skill, DemandCount: counts[skill]}
	}
	return gaps
}
