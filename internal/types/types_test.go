package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendation(t *testing.T) {
	for _, raw := range []string{"STRONGLY_RECOMMENDED", "TAKE_A_CHANCE", "RISKY", "NOT_RECOMMENDED"} {
		r, err := ParseRecommendation(raw)
		require.NoError(t, err)
		assert.Equal(t, Recommendation(raw), r)
	}

	_, err := ParseRecommendation("MAYBE")
	assert.Error(t, err)
	_, err = ParseRecommendation("strongly_recommended")
	assert.Error(t, err, "buckets are case sensitive")
}

func TestParseConfidence(t *testing.T) {
	for _, raw := range []string{"High", "Medium", "Low"} {
		c, err := ParseConfidence(raw)
		require.NoError(t, err)
		assert.Equal(t, Confidence(raw), c)
	}

	_, err := ParseConfidence("high")
	assert.Error(t, err)
}

func TestParseSessionStatus(t *testing.T) {
	for _, raw := range []string{"assigned", "in_progress", "completed", "expired"} {
		st, err := ParseSessionStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, SessionStatus(raw), st)
	}

	_, err := ParseSessionStatus("paused")
	assert.Error(t, err)
}

func TestSessionStatusPredicates(t *testing.T) {
	assert.True(t, SessionAssigned.IsActive())
	assert.True(t, SessionInProgress.IsActive())
	assert.False(t, SessionCompleted.IsActive())
	assert.False(t, SessionExpired.IsActive())

	assert.False(t, SessionAssigned.IsTerminal())
	assert.False(t, SessionInProgress.IsTerminal())
	assert.True(t, SessionCompleted.IsTerminal())
	assert.True(t, SessionExpired.IsTerminal())
}

func TestTenureMonths(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	start := now.AddDate(0, 0, -90)
	open := WorkEntry{Start: start, IsCurrent: true}
	assert.InDelta(t, 3.0, open.TenureMonths(now), 0.01)

	end := start.AddDate(0, 0, 60)
	closed := WorkEntry{Start: start, End: &end}
	assert.InDelta(t, 2.0, closed.TenureMonths(now), 0.01)

	// An end before the start contributes zero rather than going negative.
	badEnd := start.AddDate(0, 0, -10)
	inverted := WorkEntry{Start: start, End: &badEnd}
	assert.Zero(t, inverted.TenureMonths(now))
}

func TestExperienceMonthsSumsEntries(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, -30)
	snap := CandidateSnapshot{
		WorkHistory: []WorkEntry{
			{Start: now.AddDate(0, 0, -120), End: &end},
			{Start: now.AddDate(0, 0, -60), IsCurrent: true},
		},
	}
	assert.InDelta(t, 5.0, snap.ExperienceMonths(now), 0.01)
}

func TestEffectiveCreditScore(t *testing.T) {
	snap := CandidateSnapshot{}
	assert.Equal(t, NeutralCreditScore, snap.EffectiveCreditScore())

	score := 82
	snap.CreditScore = &score
	assert.Equal(t, 82, snap.EffectiveCreditScore())
}

func TestSessionDeadline(t *testing.T) {
	session := TestSession{DurationMinutes: 35}
	assert.True(t, session.Deadline().IsZero(), "no deadline before start")
	assert.False(t, session.DeadlinePassed(time.Now()))

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	session.StartTime = &start
	deadline := start.Add(35 * time.Minute)
	assert.Equal(t, deadline, session.Deadline())

	assert.False(t, session.DeadlinePassed(deadline), "deadline itself is still inside the window")
	assert.True(t, session.DeadlinePassed(deadline.Add(time.Second)))
}

func TestMidSalary(t *testing.T) {
	job := JobRequirement{SalaryMin: 8000, SalaryMax: 12000}
	assert.Equal(t, 10000.0, job.MidSalary())
}
