package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vishaaldeep/sahayak2-sub000/internal/testsession"
)

func TestMapInsertError(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "test_sessions_active_triple"}
	if err := mapInsertError(uniqueErr); !errors.Is(err, testsession.ErrDuplicateAssignment) {
		t.Errorf("Expected ErrDuplicateAssignment for code %s, got %v", uniqueViolation, err)
	}

	// Drivers may wrap the pg error before it reaches us.
	wrapped := fmt.Errorf("exec failed: %w", uniqueErr)
	if err := mapInsertError(wrapped); !errors.Is(err, testsession.ErrDuplicateAssignment) {
		t.Errorf("Expected ErrDuplicateAssignment for wrapped pg error, got %v", err)
	}

	otherPgErr := &pgconn.PgError{Code: "23502"} // not-null violation
	if err := mapInsertError(otherPgErr); errors.Is(err, testsession.ErrDuplicateAssignment) {
		t.Errorf("Non-unique pg error must not map to ErrDuplicateAssignment")
	}

	plain := errors.New("connection reset")
	err := mapInsertError(plain)
	if errors.Is(err, testsession.ErrDuplicateAssignment) {
		t.Errorf("Plain error must not map to ErrDuplicateAssignment")
	}
	if !errors.Is(err, plain) {
		t.Errorf("Original error must stay unwrappable, got %v", err)
	}
}

func TestMapUpdateTag(t *testing.T) {
	if err := mapUpdateTag(pgconn.NewCommandTag("UPDATE 0")); !errors.Is(err, testsession.ErrVersionConflict) {
		t.Errorf("Expected ErrVersionConflict for zero affected rows, got %v", err)
	}
	if err := mapUpdateTag(pgconn.NewCommandTag("UPDATE 1")); err != nil {
		t.Errorf("Expected nil for one affected row, got %v", err)
	}
}
