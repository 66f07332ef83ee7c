package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vishaaldeep/sahayak2-sub000/internal/recommend"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// SaveAssessmentResult stores one scoring event. Re-scoring the same
// candidate/job pair replaces the earlier record.
func (db *DB) SaveAssessmentResult(ctx context.Context, result types.AssessmentResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO assessment_results
		   (candidate_id, job_id, total_score, recommendation, method_used, result, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (candidate_id, job_id)
		 DO UPDATE SET total_score = $3, recommendation = $4, method_used = $5,
		               result = $6, generated_at = $7`,
		result.CandidateID, result.JobID, result.TotalScore,
		string(result.Recommendation), string(result.MethodUsed), body, result.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment result: %w", err)
	}
	return nil
}

// SaveRecommendations stores one ranking run for a candidate, replacing any
// earlier run.
func (db *DB) SaveRecommendations(ctx context.Context, candidateID uuid.UUID, result recommend.Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO job_recommendations (candidate_id, recommendations, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (candidate_id)
		 DO UPDATE SET recommendations = $2, created_at = NOW()`,
		candidateID, body,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendations: %w", err)
	}
	return nil
}
