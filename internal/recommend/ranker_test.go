package recommend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishaaldeep/sahayak2-sub000/internal/notify"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

func testSeeker() SeekerProfile {
	return SeekerProfile{
		Snapshot: types.CandidateSnapshot{
			CandidateID: uuid.New(),
			Skills: []types.SkillRecord{
				{Name: "Welding", YearsExperience: 2, Verified: true},
			},
		},
		City:             "Pune",
		ExpectedSalary:   10000,
		ExperienceMonths: 24,
	}
}

func jobCandidate(title string, salary float64, m types.EmployerMetrics) types.JobCandidate {
	return types.JobCandidate{
		Job: types.JobRequirement{
			JobID:                   uuid.New(),
			Title:                   title,
			RequiredSkills:          []string{"Welding"},
			ExperienceYearsRequired: 1,
			SalaryMin:               salary,
			SalaryMax:               salary,
			Location:                "Pune",
		},
		Employer: m,
	}
}

func TestRankVerifiedReportsPenaltyIsExactlyThirtyPercent(t *testing.T) {
	ranker, err := NewRanker(DefaultSubWeights(), nil)
	require.NoError(t, err)

	// Sub-scores work out to skill 1.0, location 1.0, salary 0.9, experience
	// 0.9, employer quality 0.2, wage fairness 0.8: raw exactly 80.
	pool := []types.JobCandidate{
		jobCandidate("Welder", 12000, types.EmployerMetrics{VerifiedReportCount: 3}),
	}

	result, err := ranker.Rank(context.Background(), testSeeker(), pool)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)

	rec := result.Recommendations[0]
	assert.Equal(t, 80, rec.RawScore)
	assert.Equal(t, 56, rec.Score, "final score must be 70%% of the pre-penalty score")
	assert.NotEmpty(t, rec.Warnings)
	assert.Contains(t, rec.Warnings, "Employer has multiple verified abuse reports")
}

func TestRankPenaltiesOnlyReduce(t *testing.T) {
	ranker, err := NewRanker(DefaultSubWeights(), nil)
	require.NoError(t, err)

	clean := types.EmployerMetrics{
		AvgRating: 4.5, RatingCount: 12, IsVerified: true, HasTaxID: true,
		AvgHistoricalWage: 11000, JobsPostedCount: 6,
	}
	cases := []types.EmployerMetrics{
		clean,
		{VerifiedReportCount: 1},
		{VerifiedReportCount: 3},
		{PendingReportCount: 4},
		{VerifiedReportCount: 3, PendingReportCount: 4},
	}

	for _, m := range cases {
		result, err := ranker.Rank(context.Background(), testSeeker(), []types.JobCandidate{
			jobCandidate("Welder", 12000, m),
		})
		require.NoError(t, err)
		rec := result.Recommendations[0]
		assert.LessOrEqual(t, rec.Score, rec.RawScore)
	}
}

func TestRankCleanEmployerHasNoPenalty(t *testing.T) {
	ranker, err := NewRanker(DefaultSubWeights(), nil)
	require.NoError(t, err)

	result, err := ranker.Rank(context.Background(), testSeeker(), []types.JobCandidate{
		jobCandidate("Welder", 12000, types.EmployerMetrics{AvgRating: 5, RatingCount: 10}),
	})
	require.NoError(t, err)

	rec := result.Recommendations[0]
	assert.Equal(t, rec.RawScore, rec.Score)
	assert.Empty(t, rec.Warnings)
}

func TestRankSortsDescendingWithStableTies(t *testing.T) {
	ranker, err := NewRanker(DefaultSubWeights(), nil, WithTopN(10))
	require.NoError(t, err)

	good := types.EmployerMetrics{AvgRating: 5, RatingCount: 10, IsVerified: true, HasTaxID: true}
	weak := types.EmployerMetrics{VerifiedReportCount: 3}

	first := jobCandidate("Tie A", 12000, good)
	second := jobCandidate("Tie B", 12000, good)
	low := jobCandidate("Penalized", 12000, weak)

	result, err := ranker.Rank(context.Background(), testSeeker(), []types.JobCandidate{low, first, second})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)

	recs := result.Recommendations
	assert.Equal(t, "Tie A", recs[0].Title)
	assert.Equal(t, "Tie B", recs[1].Title, "equal scores keep pool order")
	assert.Equal(t, "Penalized", recs[2].Title)
	assert.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
	assert.GreaterOrEqual(t, recs[1].Score, recs[2].Score)
}

func TestRankTruncatesToTopN(t *testing.T) {
	ranker, err := NewRanker(DefaultSubWeights(), nil, WithTopN(2))
	require.NoError(t, err)

	pool := make([]types.JobCandidate, 6)
	for i := range pool {
		pool[i] = jobCandidate("Welder", 12000, types.EmployerMetrics{})
	}

	result, err := ranker.Rank(context.Background(), testSeeker(), pool)
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

func TestRankEmptyPool(t *testing.T) {
	notifier := &capturingNotifier{}
	ranker, err := NewRanker(DefaultSubWeights(), nil, WithNotifier(notifier))
	require.NoError(t, err)

	result, err := ranker.Rank(context.Background(), testSeeker(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, notifier.last, "no announcement without matches")
}

type capturingNotifier struct {
	last *notify.TopMatch
}

func (n *capturingNotifier) NotifyTopMatch(_ context.Context, match notify.TopMatch) error {
	n.last = &match
	return nil
}

func TestRankAnnouncesTopMatch(t *testing.T) {
	notifier := &capturingNotifier{}
	ranker, err := NewRanker(DefaultSubWeights(), nil, WithNotifier(notifier))
	require.NoError(t, err)

	seeker := testSeeker()
	top := jobCandidate("Best Job", 16000, types.EmployerMetrics{AvgRating: 5, RatingCount: 10})
	other := jobCandidate("Other Job", 12000, types.EmployerMetrics{VerifiedReportCount: 3})

	result, err := ranker.Rank(context.Background(), seeker, []types.JobCandidate{other, top})
	require.NoError(t, err)

	require.NotNil(t, notifier.last)
	assert.Equal(t, seeker.Snapshot.CandidateID, notifier.last.CandidateID)
	assert.Equal(t, result.Recommendations[0].JobID, notifier.last.Job.JobID)
	assert.Equal(t, "Best Job", notifier.last.Job.Title)
}

func TestSkillMatchScore(t *testing.T) {
	job := types.JobRequirement{
		RequiredSkills:  []string{"Welding", "Fitting"},
		PreferredSkills: []string{"Blueprint Reading"},
	}

	// One of two required plus none of the preferred.
	score := skillMatchScore(job, []string{"welding"})
	assert.InDelta(t, 0.5*0.7+(1.0/3.0)*0.3, score, 1e-9)

	// No skills specified on the job is neutral.
	assert.InDelta(t, 0.5, skillMatchScore(types.JobRequirement{}, []string{"welding"}), 1e-9)

	// Substring containment matches in both directions.
	assert.InDelta(t, 1.0, skillMatchScore(types.JobRequirement{RequiredSkills: []string{"Arc Welding"}}, []string{"welding"}), 1e-9)
}

func TestLocationScoreTiers(t *testing.T) {
	assert.InDelta(t, 1.0, locationScore("Pune", "pune"), 1e-9)
	assert.InDelta(t, 0.8, locationScore("Pune City", "Pune"), 1e-9)
	assert.InDelta(t, 0.6, locationScore("Navi Mumbai", "Mumbai Suburban"), 1e-9)
	assert.InDelta(t, 0.3, locationScore("Delhi", "Chennai"), 1e-9)
	assert.InDelta(t, 0.5, locationScore("", "Pune"), 1e-9)
}

func TestSalaryScoreTiers(t *testing.T) {
	job := func(salary float64) types.JobRequirement {
		return types.JobRequirement{SalaryMin: salary, SalaryMax: salary}
	}
	assert.InDelta(t, 1.0, salaryScore(job(15000), 10000), 1e-9)
	assert.InDelta(t, 0.9, salaryScore(job(12000), 10000), 1e-9)
	assert.InDelta(t, 0.8, salaryScore(job(10000), 10000), 1e-9)
	assert.InDelta(t, 0.6, salaryScore(job(8000), 10000), 1e-9)
	assert.InDelta(t, 0.4, salaryScore(job(6000), 10000), 1e-9)
	assert.InDelta(t, 0.2, salaryScore(job(5000), 10000), 1e-9)
	assert.InDelta(t, 0.5, salaryScore(job(0), 10000), 1e-9)
}

func TestExperienceScoreTiers(t *testing.T) {
	job := types.JobRequirement{ExperienceYearsRequired: 1}
	assert.InDelta(t, 0.9, experienceScore(job, 20), 1e-9)
	assert.InDelta(t, 1.0, experienceScore(job, 12), 1e-9)
	assert.InDelta(t, 0.8, experienceScore(job, 10), 1e-9)
	assert.InDelta(t, 0.6, experienceScore(job, 8), 1e-9)
	assert.InDelta(t, 0.3, experienceScore(job, 3), 1e-9)
	assert.InDelta(t, 0.8, experienceScore(types.JobRequirement{}, 0), 1e-9)
}

func TestEmployerQualityScore(t *testing.T) {
	// Clean, verified, well rated employer saturates at 1.
	full := types.EmployerMetrics{
		AvgRating: 5, RatingCount: 12, IsVerified: true, HasTaxID: true, JobsPostedCount: 8,
	}
	assert.InDelta(t, 1.0, employerQualityScore(full), 1e-9)

	// Unknown employer keeps only the clean-record bonus.
	assert.InDelta(t, 0.8, employerQualityScore(types.EmployerMetrics{}), 1e-9)

	// Reports cut into the base.
	reported := types.EmployerMetrics{VerifiedReportCount: 2, PendingReportCount: 5}
	assert.InDelta(t, 0.5-0.3, employerQualityScore(reported), 1e-9)
}

func TestWageFairnessScore(t *testing.T) {
	job := types.JobRequirement{SalaryMin: 12000, SalaryMax: 12000}

	// 1.2x expectation, above the employer's own average.
	m := types.EmployerMetrics{AvgHistoricalWage: 10000}
	assert.InDelta(t, 1.0, wageFairnessScore(job, m, 10000), 1e-9)

	// Below both comparisons.
	low := types.JobRequirement{SalaryMin: 7000, SalaryMax: 7000}
	assert.InDelta(t, 0.3, wageFairnessScore(low, m, 10000), 1e-9)

	// No salary on the job.
	assert.InDelta(t, 0.3, wageFairnessScore(types.JobRequirement{}, m, 10000), 1e-9)
}

func TestIdentifySkillGaps(t *testing.T) {
	pool := []types.JobCandidate{
		{Job: types.JobRequirement{RequiredSkills: []string{"Welding", "Fitting"}}},
		{Job: types.JobRequirement{RequiredSkills: []string{"Fitting", "Rigging"}}},
		{Job: types.JobRequirement{RequiredSkills: []string{"Fitting"}}},
	}

	gaps := IdentifySkillGaps(pool, []string{"welding"})
	require.Len(t, gaps, 2)
	assert.Equal(t, SkillGap{Skill: "Fitting", DemandCount: 3}, gaps[0])
	assert.Equal(t, SkillGap{Skill: "Rigging", DemandCount: 1}, gaps[1])
}
