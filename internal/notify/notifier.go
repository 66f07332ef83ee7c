// Package notify defines the outbound notification port for recommendation
// announcements. Delivery itself belongs to an external collaborator; the
// default implementation only logs.
package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// TopMatch describes the best job found in one recommendation run.
type TopMatch struct {
	CandidateID uuid.UUID
	Job         types.RecommendationScore
	TotalFound  int
}

// Notifier announces recommendation results to a candidate.
type Notifier interface {
	NotifyTopMatch(ctx context.Context, match TopMatch) error
}

// LogNotifier writes the announcement to the log instead of delivering it.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a Notifier that logs announcements.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyTopMatch(_ context.Context, match TopMatch) error {
	n.log.Info("top job match found",
		zap.String("candidate_id", match.CandidateID.String()),
		zap.String("job_id", match.Job.JobID.String()),
		zap.String("title", match.Job.Title),
		zap.Int("score", match.Job.Score),
		zap.Int("total_found", match.TotalFound))
	return nil
}
