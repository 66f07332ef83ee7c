package testsession

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// canStart reports whether a session may move to in_progress.
func canStart(status types.SessionStatus) bool {
	return status == types.SessionAssigned
}

// canMutate reports whether answers may be submitted or the session
// completed. Expiry is checked separately because it is itself a transition.
func canMutate(status types.SessionStatus) bool {
	return status == types.SessionInProgress
}

// needsExpiry reports whether the session's deadline has passed while it is
// still in progress. Any interaction must apply this transition first.
func needsExpiry(s *types.TestSession, now time.Time) bool {
	return s.Status == types.SessionInProgress && s.DeadlinePassed(now)
}

// grade counts answered questions whose selected option matches the correct
// option and returns the count plus the rounded percentage over all questions
// in the session, answered or not.
func grade(session *types.TestSession, correctByQuestion map[uuid.UUID]int) (correct, percentage int) {
	for _, q := range session.Questions {
		if q.SelectedOption == nil {
			continue
		}
		if answer, ok := correctByQuestion[q.QuestionID]; ok && answer == *q.SelectedOption {
			correct++
		}
	}
	total := len(session.Questions)
	if total == 0 {
		return 0, 0
	}
	percentage = int(math.Round(float64(correct) / float64(total) * 100))
	return correct, percentage
}
