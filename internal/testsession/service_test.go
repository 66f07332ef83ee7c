package testsession

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T, questionCount int) (*Service, *MemoryStore, *fakeClock, uuid.UUID) {
	t.Helper()

	store := NewMemoryStore()
	skillID := uuid.New()
	questions := make([]types.Question, questionCount)
	for i := range questions {
		questions[i] = types.Question{
			ID:      uuid.New(),
			SkillID: skillID,
			Text:    fmt.Sprintf("question %d", i),
			Options: [4]string{"a", "b", "c", "d"},
			// Correct answer is always option 1 to keep grading predictable.
			CorrectOption: 1,
		}
	}
	store.AddSkill(skillID, "Welding", questions)

	clock := &fakeClock{t: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	svc, err := NewService(store, DefaultConfig(), nil,
		WithClock(clock.Now),
		WithRandSource(rand.NewSource(42)))
	require.NoError(t, err)
	return svc, store, clock, skillID
}

func TestAssignDrawsWithoutReplacement(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 10)
	candidateID := uuid.New()

	session, err := svc.Assign(context.Background(), AssignRequest{
		CandidateID: candidateID,
		SkillID:     skillID,
		AssignedBy:  uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, types.SessionAssigned, session.Status)
	assert.Len(t, session.Questions, 10)
	assert.Equal(t, DefaultDurationMinutes, session.DurationMinutes)

	seen := make(map[uuid.UUID]bool)
	for _, q := range session.Questions {
		assert.False(t, seen[q.QuestionID], "question drawn twice")
		seen[q.QuestionID] = true
		assert.Nil(t, q.SelectedOption)
	}
}

func TestAssignCapsQuestionCount(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 60)

	session, err := svc.Assign(context.Background(), AssignRequest{
		CandidateID: uuid.New(),
		SkillID:     skillID,
		AssignedBy:  uuid.New(),
	})
	require.NoError(t, err)
	assert.Len(t, session.Questions, DefaultMaxQuestions)
}

func TestAssignShuffleIsReproducible(t *testing.T) {
	ctx := context.Background()

	order := func() []uuid.UUID {
		store := NewMemoryStore()
		skillID := uuid.New()
		questions := make([]types.Question, 8)
		for i := range questions {
			questions[i] = types.Question{
				// Deterministic ids so both runs share a bank.
				ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i)}),
				SkillID: skillID,
			}
		}
		store.AddSkill(skillID, "Welding", questions)

		svc, err := NewService(store, DefaultConfig(), nil, WithRandSource(rand.NewSource(7)))
		require.NoError(t, err)
		session, err := svc.Assign(ctx, AssignRequest{CandidateID: uuid.New(), SkillID: skillID, AssignedBy: uuid.New()})
		require.NoError(t, err)

		ids := make([]uuid.UUID, len(session.Questions))
		for i, q := range session.Questions {
			ids[i] = q.QuestionID
		}
		return ids
	}

	assert.Equal(t, order(), order())
}

func TestAssignFailsWithoutQuestions(t *testing.T) {
	svc, store, _, _ := newFixture(t, 5)
	emptySkill := uuid.New()
	store.AddSkill(emptySkill, "Masonry", nil)
	candidateID := uuid.New()

	_, err := svc.Assign(context.Background(), AssignRequest{
		CandidateID: candidateID,
		SkillID:     emptySkill,
		AssignedBy:  uuid.New(),
	})
	require.ErrorIs(t, err, ErrNoQuestions)

	sessions, err := svc.ListForCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestAssignRejectsDuplicateActiveSession(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	req := AssignRequest{CandidateID: uuid.New(), SkillID: skillID, AssignedBy: uuid.New()}

	first, err := svc.Assign(ctx, req)
	require.NoError(t, err)

	_, err = svc.Assign(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateAssignment)

	// A different job for the same skill is a distinct triple.
	jobID := uuid.New()
	withJob := req
	withJob.JobID = &jobID
	_, err = svc.Assign(ctx, withJob)
	require.NoError(t, err)

	// Once the first session is terminal, reassignment is allowed.
	_, err = svc.Start(ctx, first.ID, req.CandidateID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, first.ID, req.CandidateID)
	require.NoError(t, err)

	_, err = svc.Assign(ctx, req)
	require.NoError(t, err)
}

func TestStartOnlyFromAssigned(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)

	started, err := svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionInProgress, started.Status)
	require.NotNil(t, started.StartTime)

	_, err = svc.Start(ctx, session.ID, candidateID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitAnswerRequiresOwnership(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, session.ID, uuid.New(), 0, 1)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSubmitAnswerOverwritesPriorChoice(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, 2, 0)
	require.NoError(t, err)
	updated, err := svc.SubmitAnswer(ctx, session.ID, candidateID, 2, 3)
	require.NoError(t, err)

	require.NotNil(t, updated.Questions[2].SelectedOption)
	assert.Equal(t, 3, *updated.Questions[2].SelectedOption)
}

func TestSubmitAnswerValidatesRanges(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, 5, 1)
	assert.ErrorIs(t, err, ErrQuestionIndex)
	_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, 0, 4)
	assert.ErrorIs(t, err, ErrOptionRange)
}

func TestSubmitAnswerPastDeadlineExpires(t *testing.T) {
	svc, _, clock, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	clock.Advance(time.Duration(DefaultDurationMinutes)*time.Minute + time.Second)

	_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, 0, 1)
	require.ErrorIs(t, err, ErrSessionExpired)

	expired, err := svc.Get(ctx, session.ID, candidateID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionExpired, expired.Status)
	assert.Nil(t, expired.Questions[0].SelectedOption, "late answer must not be recorded")
	assert.Equal(t, 0, expired.Percentage)
}

func TestCompleteGradesSevenOfTen(t *testing.T) {
	svc, store, _, skillID := newFixture(t, 10)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	// Correct option is always 1: answer seven right, two wrong, one blank.
	for i := 0; i < 7; i++ {
		_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, i, 1)
		require.NoError(t, err)
	}
	for i := 7; i < 9; i++ {
		_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, i, 2)
		require.NoError(t, err)
	}

	completed, err := svc.Complete(ctx, session.ID, candidateID)
	require.NoError(t, err)

	assert.Equal(t, types.SessionCompleted, completed.Status)
	assert.Equal(t, 7, completed.CorrectCount)
	assert.Equal(t, 70, completed.Percentage)
	require.NotNil(t, completed.CompletedAt)

	outcomes := store.Outcomes(candidateID)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "Welding", outcomes[0].SkillName)
	assert.Equal(t, 70, outcomes[0].Percentage)
	assert.True(t, outcomes[0].Passed)
}

func TestCompleteBelowThresholdFails(t *testing.T) {
	svc, store, _, skillID := newFixture(t, 4)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, 0, 1)
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, session.ID, candidateID)
	require.NoError(t, err)

	assert.Equal(t, 25, completed.Percentage)
	outcomes := store.Outcomes(candidateID)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Passed)
}

func TestCompleteRequiresInProgress(t *testing.T) {
	svc, _, _, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, session.ID, candidateID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompletePastDeadlineExpiresWithoutScore(t *testing.T) {
	svc, store, clock, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = svc.SubmitAnswer(ctx, session.ID, candidateID, i, 1)
		require.NoError(t, err)
	}

	clock.Advance(time.Hour)

	_, err = svc.Complete(ctx, session.ID, candidateID)
	require.ErrorIs(t, err, ErrSessionExpired)

	expired, err := svc.Get(ctx, session.ID, candidateID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionExpired, expired.Status)
	assert.Equal(t, 0, expired.CorrectCount)
	assert.Empty(t, store.Outcomes(candidateID))

	// Answers survive for audit even though no score was computed.
	for _, q := range expired.Questions {
		assert.NotNil(t, q.SelectedOption)
	}
}

func TestListForCandidateAppliesLazyExpiry(t *testing.T) {
	svc, _, clock, skillID := newFixture(t, 5)
	ctx := context.Background()
	candidateID := uuid.New()

	session, err := svc.Assign(ctx, AssignRequest{CandidateID: candidateID, SkillID: skillID, AssignedBy: uuid.New()})
	require.NoError(t, err)
	_, err = svc.Start(ctx, session.ID, candidateID)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	sessions, err := svc.ListForCandidate(ctx, candidateID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, types.SessionExpired, sessions[0].Status)
}

func TestMemoryStoreRejectsStaleVersion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := &types.TestSession{
		ID:          uuid.New(),
		CandidateID: uuid.New(),
		SkillID:     uuid.New(),
		Status:      types.SessionAssigned,
		Version:     1,
	}
	require.NoError(t, store.CreateSession(ctx, session))

	stale := cloneSession(session)
	stale.Version = 3 // skips version 2
	assert.ErrorIs(t, store.UpdateSession(ctx, stale), ErrVersionConflict)

	next := cloneSession(session)
	next.Version = 2
	assert.NoError(t, store.UpdateSession(ctx, next))
}
