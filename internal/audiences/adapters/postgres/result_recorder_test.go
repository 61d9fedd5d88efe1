package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"lookalike-audience-service/internal/audiences/core/domain"
)

type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

type fakeDB struct {
	ExecFn     func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastQuery  string
	lastArgs   []any
	execCalled bool
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execCalled = true
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

// ------------------------------------------------------------
// CREATED ROW
// ------------------------------------------------------------

func TestResultRecorder_Created(t *testing.T) {
	db := &fakeDB{}
	rec := NewResultRecorder(db)

	res := domain.LookalikeResult{
		Row:              1,
		Name:             "TW-1%-Buyers",
		AudienceID:       "2384",
		Status:           domain.StatusCreated,
		SourceAudienceID: "111",
		Country:          "TW",
		Ratio:            0.01,
	}

	if err := rec.RecordResult(context.Background(), "run-1", "42", res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.execCalled {
		t.Fatalf("expected ExecContext to be called")
	}
	if !strings.Contains(db.lastQuery, "INSERT INTO lookalike_results") {
		t.Fatalf("unexpected query: %s", db.lastQuery)
	}
	if !strings.Contains(db.lastQuery, "ON CONFLICT (run_id, row_no) DO NOTHING") {
		t.Fatalf("expected idempotent insert, got: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 10 {
		t.Fatalf("expected 10 args, got %d", len(db.lastArgs))
	}
	if db.lastArgs[0] != "run-1" || db.lastArgs[1] != 1 || db.lastArgs[2] != "42" || db.lastArgs[3] != "TW-1%-Buyers" {
		t.Fatalf("unexpected leading args: %v", db.lastArgs[:4])
	}
	if db.lastArgs[4] != "2384" {
		t.Fatalf("expected audience id arg, got %v", db.lastArgs[4])
	}
	if db.lastArgs[5] != "created" {
		t.Fatalf("expected status=created, got %v", db.lastArgs[5])
	}
	if db.lastArgs[6] != nil {
		t.Fatalf("expected NULL reason, got %v", db.lastArgs[6])
	}
}

// ------------------------------------------------------------
// FAILED ROW (no audience id)
// ------------------------------------------------------------

func TestResultRecorder_FailedRowUsesNullAudienceID(t *testing.T) {
	db := &fakeDB{}
	rec := NewResultRecorder(db)

	res := domain.LookalikeResult{
		Row:              2,
		Name:             "US-2%-Buyers",
		Status:           domain.StatusFailed,
		Reason:           "Invalid parameter",
		SourceAudienceID: "111",
		Country:          "US",
		Ratio:            0.02,
	}

	if err := rec.RecordResult(context.Background(), "run-1", "42", res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastArgs[4] != nil {
		t.Fatalf("expected NULL audience id, got %v", db.lastArgs[4])
	}
	if db.lastArgs[6] != "Invalid parameter" {
		t.Fatalf("expected reason arg, got %v", db.lastArgs[6])
	}
}

// ------------------------------------------------------------
// MISSING RUN ID
// ------------------------------------------------------------

func TestResultRecorder_MissingRunID(t *testing.T) {
	db := &fakeDB{}
	rec := NewResultRecorder(db)

	err := rec.RecordResult(context.Background(), "", "42", domain.LookalikeResult{Row: 1, Name: "x"})
	if !errors.Is(err, ErrMissingRunID) {
		t.Fatalf("expected ErrMissingRunID, got %v", err)
	}
	if db.execCalled {
		t.Fatalf("ExecContext should not be called without a run id")
	}
}

// ------------------------------------------------------------
// SAME NAME TWICE IN ONE RUN
// ------------------------------------------------------------

func TestResultRecorder_SameNameRowsInOneRunBothInsert(t *testing.T) {
	var rows []any
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if strings.Contains(query, "(run_id, name)") {
				t.Fatalf("conflict key must not be the audience name: %s", query)
			}
			rows = append(rows, args[1])
			return &fakeResult{rowsAffected: 1}, nil
		},
	}
	rec := NewResultRecorder(db)

	first := domain.LookalikeResult{Row: 1, Name: "TW-1%-Buyers", Status: domain.StatusCreated, AudienceID: "900", SourceAudienceID: "1", Country: "TW", Ratio: 0.01}
	second := domain.LookalikeResult{Row: 2, Name: "TW-1%-Buyers", Status: domain.StatusSkipped, Reason: "audience with the same name already exists", SourceAudienceID: "2", Country: "TW", Ratio: 0.01}

	for _, res := range []domain.LookalikeResult{first, second} {
		if err := rec.RecordResult(context.Background(), "run-1", "42", res); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("expected two inserts keyed by rows 1 and 2, got %v", rows)
	}
}

// ------------------------------------------------------------
// MISSING ROW NUMBER
// ------------------------------------------------------------

func TestResultRecorder_MissingRow(t *testing.T) {
	db := &fakeDB{}
	rec := NewResultRecorder(db)

	err := rec.RecordResult(context.Background(), "run-1", "42", domain.LookalikeResult{Name: "x"})
	if !errors.Is(err, ErrMissingRow) {
		t.Fatalf("expected ErrMissingRow, got %v", err)
	}
	if db.execCalled {
		t.Fatalf("ExecContext should not be called without a row number")
	}
}

// ------------------------------------------------------------
// DB ERROR
// ------------------------------------------------------------

func TestResultRecorder_DBError(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db error")
		},
	}
	rec := NewResultRecorder(db)

	err := rec.RecordResult(context.Background(), "run-1", "42", domain.LookalikeResult{Row: 1, Name: "x", Status: domain.StatusCreated})
	if err == nil || err.Error() != "db error" {
		t.Fatalf("expected db error, got %v", err)
	}
}
