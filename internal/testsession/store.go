package testsession

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// Store is the persistence boundary for sessions, the question bank, and
// emitted outcomes. Implementations must enforce the active-session
// uniqueness constraint at write time and reject stale-version updates.
type Store interface {
	// CreateSession persists a new session. It returns
	// ErrDuplicateAssignment when an active session already exists for the
	// same candidate, skill, and job.
	CreateSession(ctx context.Context, session *types.TestSession) error
	// GetSession returns the session with the given id, or ErrNotFound.
	GetSession(ctx context.Context, id uuid.UUID) (*types.TestSession, error)
	// UpdateSession persists a mutated session. The caller increments
	// Version before the call; the store rejects the write with
	// ErrVersionConflict unless the stored version is exactly one behind.
	UpdateSession(ctx context.Context, session *types.TestSession) error
	// ListByCandidate returns all sessions assigned to a candidate.
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*types.TestSession, error)

	// QuestionsForSkill returns the question bank for a skill.
	QuestionsForSkill(ctx context.Context, skillID uuid.UUID) ([]types.Question, error)
	// SkillName resolves a skill id to its display name.
	SkillName(ctx context.Context, skillID uuid.UUID) (string, error)

	// SaveOutcome records a completed session's outcome for the candidate's
	// test history.
	SaveOutcome(ctx context.Context, candidateID uuid.UUID, outcome types.TestOutcome) error
}

// MemoryStore is an in-process Store used by tests and single-node setups.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*types.TestSession
	questions map[uuid.UUID][]types.Question
	skills    map[uuid.UUID]string
	outcomes  map[uuid.UUID][]types.TestOutcome
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[uuid.UUID]*types.TestSession),
		questions: make(map[uuid.UUID][]types.Question),
		skills:    make(map[uuid.UUID]string),
		outcomes:  make(map[uuid.UUID][]types.TestOutcome),
	}
}

// AddSkill registers a skill and its question bank.
func (m *MemoryStore) AddSkill(skillID uuid.UUID, name string, questions []types.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills[skillID] = name
	m.questions[skillID] = append([]types.Question(nil), questions...)
}

// Outcomes returns the recorded outcomes for a candidate.
func (m *MemoryStore) Outcomes(candidateID uuid.UUID) []types.TestOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.TestOutcome(nil), m.outcomes[candidateID]...)
}

func (m *MemoryStore) CreateSession(_ context.Context, session *types.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.sessions {
		if existing.CandidateID == session.CandidateID &&
			existing.SkillID == session.SkillID &&
			sameJob(existing.JobID, session.JobID) &&
			existing.Status.IsActive() {
			return ErrDuplicateAssignment
		}
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*types.TestSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(session), nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, session *types.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != session.Version-1 {
		return ErrVersionConflict
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]*types.TestSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sessions []*types.TestSession
	for _, s := range m.sessions {
		if s.CandidateID == candidateID {
			sessions = append(sessions, cloneSession(s))
		}
	}
	return sessions, nil
}

func (m *MemoryStore) QuestionsForSkill(_ context.Context, skillID uuid.UUID) ([]types.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Question(nil), m.questions[skillID]...), nil
}

func (m *MemoryStore) SkillName(_ context.Context, skillID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, ok := m.skills[skillID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (m *MemoryStore) SaveOutcome(_ context.Context, candidateID uuid.UUID, outcome types.TestOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[candidateID] = append(m.outcomes[candidateID], outcome)
	return nil
}

func sameJob(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneSession(s *types.TestSession) *types.TestSession {
	clone := *s
	clone.Questions = make([]types.SessionQuestion, len(s.Questions))
	for i, q := range s.Questions {
		clone.Questions[i] = q
		if q.SelectedOption != nil {
			selected := *q.SelectedOption
			clone.Questions[i].SelectedOption = &selected
		}
	}
	return &clone
}
