package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// SkillsForCandidate returns a candidate's claimed skills with verification
// state.
func (db *DB) SkillsForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.SkillRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.name, us.years_experience, us.verified
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var skills []types.SkillRecord
	for rows.Next() {
		var sk types.SkillRecord
		if err := rows.Scan(&sk.Name, &sk.YearsExperience, &sk.Verified); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// WorkHistoryForCandidate returns a candidate's work entries, newest first.
func (db *DB) WorkHistoryForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.WorkEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, start_date, end_date
		 FROM user_experiences
		 WHERE user_id = $1
		 ORDER BY start_date DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query work history: %w", err)
	}
	defer rows.Close()

	var entries []types.WorkEntry
	for rows.Next() {
		var e types.WorkEntry
		if err := rows.Scan(&e.Title, &e.Start, &e.End); err != nil {
			return nil, fmt.Errorf("failed to scan work entry: %w", err)
		}
		e.IsCurrent = e.End == nil
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TestOutcomesForCandidate returns the candidate's completed test outcomes,
// oldest first.
func (db *DB) TestOutcomesForCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.TestOutcome, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, percentage, passed, completed_at
		 FROM test_outcomes
		 WHERE candidate_id = $1
		 ORDER BY completed_at`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query test outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.TestOutcome
	for rows.Next() {
		var o types.TestOutcome
		if err := rows.Scan(&o.SkillName, &o.Percentage, &o.Passed, &o.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan test outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// StandingForCandidate returns the candidate's reliability counters and
// credit score. A missing credit-score row yields a nil score, not an error.
func (db *DB) StandingForCandidate(ctx context.Context, candidateID uuid.UUID) (types.Reliability, *int, error) {
	var rel types.Reliability
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(false_accusation_count, 0), COALESCE(confirmed_abuse_count, 0)
		 FROM user_reliability WHERE user_id = $1`,
		candidateID,
	).Scan(&rel.FalseAccusationCount, &rel.ConfirmedAbuseCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return types.Reliability{}, nil, fmt.Errorf("failed to query reliability: %w", err)
	}

	var credit *int
	err = db.pool.QueryRow(ctx,
		`SELECT score FROM credit_scores WHERE user_id = $1`,
		candidateID,
	).Scan(&credit)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return types.Reliability{}, nil, fmt.Errorf("failed to query credit score: %w", err)
	}

	return rel, credit, nil
}
