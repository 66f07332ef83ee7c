package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vishaaldeep/sahayak2-sub000/internal/testsession"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

// uniqueViolation is the PostgreSQL error code raised by the partial unique
// index over active (candidate_id, skill_id, job_id) sessions.
const uniqueViolation = "23505"

// mapInsertError translates a session insert failure. A unique violation
// means an active session already exists for the triple.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return testsession.ErrDuplicateAssignment
	}
	return fmt.Errorf("failed to create session: %w", err)
}

// mapUpdateTag translates a version-guarded update result. Zero affected
// rows means the stored version moved on under us.
func mapUpdateTag(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return testsession.ErrVersionConflict
	}
	return nil
}

// CreateSession persists a new test session. The database enforces the
// one-active-session-per-triple constraint; a violation maps to
// testsession.ErrDuplicateAssignment.
func (db *DB) CreateSession(ctx context.Context, session *types.TestSession) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO test_sessions
		   (id, candidate_id, skill_id, job_id, assigned_by, status, questions,
		    duration_minutes, assigned_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		session.ID, session.CandidateID, session.SkillID, session.JobID,
		session.AssignedBy, string(session.Status), questions,
		session.DurationMinutes, session.AssignedAt, session.Version,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.TestSession, error) {
	var session types.TestSession
	var status string
	var questions []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, skill_id, job_id, assigned_by, status, questions,
		        start_time, duration_minutes, correct_count, percentage,
		        assigned_at, completed_at, version
		 FROM test_sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.CandidateID, &session.SkillID, &session.JobID,
		&session.AssignedBy, &status, &questions,
		&session.StartTime, &session.DurationMinutes, &session.CorrectCount,
		&session.Percentage, &session.AssignedAt, &session.CompletedAt, &session.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, testsession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Status, err = types.ParseSessionStatus(status)
	if err != nil {
		return nil, fmt.Errorf("stored session %s: %w", id, err)
	}
	if err := json.Unmarshal(questions, &session.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question set: %w", err)
	}
	return &session, nil
}

// UpdateSession persists a mutated session guarded by its version: the write
// succeeds only against the immediately preceding version.
func (db *DB) UpdateSession(ctx context.Context, session *types.TestSession) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE test_sessions
		 SET status = $1, questions = $2, start_time = $3, correct_count = $4,
		     percentage = $5, completed_at = $6, version = $7
		 WHERE id = $8 AND version = $9`,
		string(session.Status), questions, session.StartTime, session.CorrectCount,
		session.Percentage, session.CompletedAt, session.Version,
		session.ID, session.Version-1,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return mapUpdateTag(tag)
}

// ListByCandidate retrieves all sessions assigned to a candidate, newest
// first.
func (db *DB) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*types.TestSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM test_sessions WHERE candidate_id = $1 ORDER BY assigned_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]*types.TestSession, 0, len(ids))
	for _, id := range ids {
		session, err := db.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// QuestionsForSkill returns the question bank for a skill. The bank is
// append-only reference data; this never mutates it.
func (db *DB) QuestionsForSkill(ctx context.Context, skillID uuid.UUID) ([]types.Question, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, skill_id, text, options, correct_option
		 FROM skill_questions WHERE skill_id = $1`,
		skillID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []types.Question
	for rows.Next() {
		var q types.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.SkillID, &q.Text, &options, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SkillName resolves a skill id to its display name.
func (db *DB) SkillName(ctx context.Context, skillID uuid.UUID) (string, error) {
	var name string
	err := db.pool.QueryRow(ctx,
		`SELECT name FROM skills WHERE id = $1`, skillID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", testsession.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve skill name: %w", err)
	}
	return name, nil
}

// SaveOutcome appends a completed session's outcome to the candidate's test
// history.
func (db *DB) SaveOutcome(ctx context.Context, candidateID uuid.UUID, outcome types.TestOutcome) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO test_outcomes (candidate_id, skill_name, percentage, passed, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		candidateID, outcome.SkillName, outcome.Percentage, outcome.Passed, outcome.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save test outcome: %w", err)
	}
	return nil
}
