package testsession

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// Defaults for newly assigned sessions.
const (
	DefaultMaxQuestions    = 50
	DefaultDurationMinutes = 35
	// PassThreshold is the percentage at or above which a completed session
	// counts as passed in the candidate's test history.
	PassThreshold = 70
)

// sessionLockCount stripes the per-session locks.
const sessionLockCount = 64

// Config holds the assignment parameters for new sessions.
type Config struct {
	// MaxQuestions caps how many questions one session draws from the bank.
	MaxQuestions int
	// DurationMinutes is the submission window once a session starts.
	DurationMinutes int
}

// DefaultConfig returns the production session parameters.
func DefaultConfig() Config {
	return Config{
		MaxQuestions:    DefaultMaxQuestions,
		DurationMinutes: DefaultDurationMinutes,
	}
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("max questions must be positive, got %d", c.MaxQuestions)
	}
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive, got %d minutes", c.DurationMinutes)
	}
	return nil
}

// Service drives the session lifecycle. Interactions with the same session id
// are serialized through striped locks so expiry evaluation and the mutation
// that triggered it are atomic with respect to concurrent calls.
type Service struct {
	store Store
	cfg   Config
	log   *zap.Logger
	now   func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	locks [sessionLockCount]sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects the time source used for deadlines and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandSource injects the source behind question shuffling, so tests get a
// reproducible order.
func WithRandSource(src rand.Source) Option {
	return func(s *Service) { s.rng = rand.New(src) }
}

// NewService creates a session service over the given store.
func NewService(store Store, cfg Config, log *zap.Logger, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AssignRequest identifies who gets tested on what.
type AssignRequest struct {
	CandidateID uuid.UUID
	SkillID     uuid.UUID
	JobID       *uuid.UUID // nil for a general skill test
	AssignedBy  uuid.UUID
}

// Assign creates a new session in the assigned state. The question set is
// drawn from the skill's bank without replacement, shuffled once, and fixed
// for the life of the session. Zero available questions is a hard failure.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (*types.TestSession, error) {
	bank, err := s.store.QuestionsForSkill(ctx, req.SkillID)
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, ErrNoQuestions
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(bank), func(i, j int) {
		bank[i], bank[j] = bank[j], bank[i]
	})
	s.rngMu.Unlock()

	count := len(bank)
	if count > s.cfg.MaxQuestions {
		count = s.cfg.MaxQuestions
	}
	questions := make([]types.SessionQuestion, count)
	for i := 0; i < count; i++ {
		questions[i] = types.SessionQuestion{QuestionID: bank[i].ID}
	}

	session := &types.TestSession{
		ID:              uuid.New(),
		CandidateID:     req.CandidateID,
		SkillID:         req.SkillID,
		JobID:           req.JobID,
		AssignedBy:      req.AssignedBy,
		Status:          types.SessionAssigned,
		Questions:       questions,
		DurationMinutes: s.cfg.DurationMinutes,
		AssignedAt:      s.now(),
		Version:         1,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("test session assigned",
		zap.String("session_id", session.ID.String()),
		zap.String("candidate_id", session.CandidateID.String()),
		zap.String("skill_id", session.SkillID.String()),
		zap.Int("question_count", len(session.Questions)))
	return session, nil
}

// Start moves a session from assigned to in_progress and records the start
// time that anchors its deadline.
func (s *Service) Start(ctx context.Context, sessionID, candidateID uuid.UUID) (*types.TestSession, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	if !canStart(session.Status) {
		return nil, fmt.Errorf("start from %q: %w", session.Status, ErrInvalidTransition)
	}

	start := s.now()
	session.StartTime = &start
	session.Status = types.SessionInProgress
	session.Version++
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("test session started",
		zap.String("session_id", session.ID.String()),
		zap.Time("deadline", session.Deadline()))
	return session, nil
}

// SubmitAnswer records the selected option for one question. Submitting past
// the deadline expires the session instead; re-answering an index overwrites
// the earlier choice.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, candidateID uuid.UUID, questionIndex, selectedOption int) (*types.TestSession, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	if needsExpiry(session, s.now()) {
		if err := s.expire(ctx, session); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	if !canMutate(session.Status) {
		return nil, fmt.Errorf("submit answer from %q: %w", session.Status, ErrInvalidTransition)
	}
	if questionIndex < 0 || questionIndex >= len(session.Questions) {
		return nil, fmt.Errorf("index %d of %d questions: %w", questionIndex, len(session.Questions), ErrQuestionIndex)
	}
	if selectedOption < 0 || selectedOption >= types.QuestionOptionCount {
		return nil, fmt.Errorf("option %d: %w", selectedOption, ErrOptionRange)
	}

	session.Questions[questionIndex].SelectedOption = &selectedOption
	session.Version++
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete finalizes an in-progress session: grades the answers against the
// question bank, stores the score, and emits the outcome to the candidate's
// test history.
func (s *Service) Complete(ctx context.Context, sessionID, candidateID uuid.UUID) (*types.TestSession, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	if needsExpiry(session, s.now()) {
		if err := s.expire(ctx, session); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	if !canMutate(session.Status) {
		return nil, fmt.Errorf("complete from %q: %w", session.Status, ErrInvalidTransition)
	}

	bank, err := s.store.QuestionsForSkill(ctx, session.SkillID)
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}
	correctByQuestion := make(map[uuid.UUID]int, len(bank))
	for _, q := range bank {
		correctByQuestion[q.ID] = q.CorrectOption
	}

	session.CorrectCount, session.Percentage = grade(session, correctByQuestion)
	completed := s.now()
	session.CompletedAt = &completed
	session.Status = types.SessionCompleted
	session.Version++
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	skillName, err := s.store.SkillName(ctx, session.SkillID)
	if err != nil {
		return nil, fmt.Errorf("resolving skill name: %w", err)
	}
	outcome := types.TestOutcome{
		SkillName:   skillName,
		Percentage:  session.Percentage,
		Passed:      session.Percentage >= PassThreshold,
		CompletedAt: completed,
	}
	if err := s.store.SaveOutcome(ctx, session.CandidateID, outcome); err != nil {
		return nil, fmt.Errorf("recording outcome: %w", err)
	}

	s.log.Info("test session completed",
		zap.String("session_id", session.ID.String()),
		zap.Int("correct", session.CorrectCount),
		zap.Int("percentage", session.Percentage),
		zap.Bool("passed", outcome.Passed))
	return session, nil
}

// Get returns a session, applying lazy expiry first if its deadline has
// passed.
func (s *Service) Get(ctx context.Context, sessionID, candidateID uuid.UUID) (*types.TestSession, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	if needsExpiry(session, s.now()) {
		if err := s.expire(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// ListForCandidate returns all of a candidate's sessions, lazily expiring any
// whose deadline has passed.
func (s *Service) ListForCandidate(ctx context.Context, candidateID uuid.UUID) ([]*types.TestSession, error) {
	sessions, err := s.store.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, session := range sessions {
		if !needsExpiry(session, now) {
			continue
		}
		unlock := s.lockSession(session.ID)
		// Re-read under the lock; another call may have expired it already.
		current, err := s.store.GetSession(ctx, session.ID)
		if err == nil && needsExpiry(current, now) {
			if err := s.expire(ctx, current); err != nil {
				unlock()
				return nil, err
			}
		}
		unlock()
		if err == nil {
			*session = *current
		}
	}
	return sessions, nil
}

// expire moves an over-deadline session to expired. Answers are kept for
// audit; no score is computed.
func (s *Service) expire(ctx context.Context, session *types.TestSession) error {
	session.Status = types.SessionExpired
	session.Version++
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return err
	}
	s.log.Info("test session expired",
		zap.String("session_id", session.ID.String()),
		zap.Time("deadline", session.Deadline()))
	return nil
}

func (s *Service) loadOwned(ctx context.Context, sessionID, candidateID uuid.UUID) (*types.TestSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CandidateID != candidateID {
		return nil, ErrNotOwner
	}
	return session, nil
}

func (s *Service) lockSession(id uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(id[:])
	lock := &s.locks[h.Sum32()%sessionLockCount]
	lock.Lock()
	return lock.Unlock
}
