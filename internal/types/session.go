package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus values mirror the assessment lifecycle states.
type SessionStatus string

const (
	SessionAssigned   SessionStatus = "assigned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionExpired    SessionStatus = "expired"
)

// ParseSessionStatus converts a raw string to a SessionStatus, returning an
// error for unknown values.
func ParseSessionStatus(s string) (SessionStatus, error) {
	st := SessionStatus(s)
	switch st {
	case SessionAssigned, SessionInProgress, SessionCompleted, SessionExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionExpired
}

// IsActive reports whether the session still blocks a duplicate assignment
// for the same (candidate, skill, job) triple.
func (s SessionStatus) IsActive() bool {
	return s == SessionAssigned || s == SessionInProgress
}

// QuestionOptionCount is the fixed number of options per question.
const QuestionOptionCount = 4

// Question is one entry of the append-only question bank for a skill.
type Question struct {
	ID            uuid.UUID `json:"id"`
	SkillID       uuid.UUID `json:"skill_id"`
	Text          string    `json:"text"`
	Options       [4]string `json:"options"`
	CorrectOption int       `json:"correct_option"` // 0-3
}

// SessionQuestion is one slot in a session's fixed question set.
type SessionQuestion struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption *int      `json:"selected_option,omitempty"` // nil until answered
}

// TestSession is one timed attempt at a fixed set of skill-quiz questions.
// The question set is drawn without replacement and its order is fixed at
// assignment.
type TestSession struct {
	ID              uuid.UUID         `json:"id"`
	CandidateID     uuid.UUID         `json:"candidate_id"`
	SkillID         uuid.UUID         `json:"skill_id"`
	JobID           *uuid.UUID        `json:"job_id,omitempty"` // nil for general skill tests
	AssignedBy      uuid.UUID         `json:"assigned_by"`
	Status          SessionStatus     `json:"status"`
	Questions       []SessionQuestion `json:"questions"`
	StartTime       *time.Time        `json:"start_time,omitempty"`
	DurationMinutes int               `json:"duration_minutes"`
	CorrectCount    int               `json:"correct_count"`
	Percentage      int               `json:"percentage"`
	AssignedAt      time.Time         `json:"assigned_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	Version         int               `json:"version"` // optimistic concurrency token
}

// Deadline returns the submission deadline, valid only once started.
func (t *TestSession) Deadline() time.Time {
	if t.StartTime == nil {
		return time.Time{}
	}
	return t.StartTime.Add(time.Duration(t.DurationMinutes) * time.Minute)
}

// DeadlinePassed reports whether now is past the submission deadline.
// Sessions that were never started have no deadline.
func (t *TestSession) DeadlinePassed(now time.Time) bool {
	if t.StartTime == nil {
		return false
	}
	return now.After(t.Deadline())
}
