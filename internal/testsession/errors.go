// Package testsession implements the timed skill-quiz lifecycle: assign,
// start, answer, complete or expire. Completed sessions emit the test
// outcomes consumed by candidate profile aggregation.
package testsession

import "errors"

var (
	// ErrNotFound means no session exists with the given id.
	ErrNotFound = errors.New("session not found")
	// ErrNotOwner means the caller is not the candidate the session was
	// assigned to.
	ErrNotOwner = errors.New("session belongs to a different candidate")
	// ErrDuplicateAssignment means an active session already exists for the
	// same candidate, skill, and job.
	ErrDuplicateAssignment = errors.New("active session already exists for this candidate, skill, and job")
	// ErrNoQuestions means the question bank has no questions for the skill.
	ErrNoQuestions = errors.New("no questions available for skill")
	// ErrInvalidTransition means the requested operation is not allowed from
	// the session's current status.
	ErrInvalidTransition = errors.New("operation not allowed in current session status")
	// ErrSessionExpired means the submission deadline has passed; the session
	// has been moved to expired and the interaction was rejected.
	ErrSessionExpired = errors.New("session deadline has passed")
	// ErrQuestionIndex means the question index is outside the session's
	// question set.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrOptionRange means the selected option is not a valid option index.
	ErrOptionRange = errors.New("selected option out of range")
	// ErrVersionConflict means a concurrent update won; the caller should
	// re-read and retry.
	ErrVersionConflict = errors.New("session was modified concurrently")
)
