package postgres

import (
	"context"
	"errors"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/ports"
)

var (
	ErrMissingRunID = errors.New("postgres: run id is required")
	ErrMissingRow   = errors.New("postgres: row number is required")
)

// ResultRecorder appends lookalike outcomes to lookalike_results.
type ResultRecorder struct {
	db DB
}

func NewResultRecorder(db DB) *ResultRecorder {
	return &ResultRecorder{db: db}
}

var _ ports.ResultRecorderPort = (*ResultRecorder)(nil)

const insertResultSQL = `
INSERT INTO lookalike_results (
    run_id,
    row_no,
    ad_account_id,
    name,
    audience_id,
    status,
    reason,
    source_audience_id,
    country,
    ratio
) VALUES (
    $1, $2, $3, $4, $5,
    $6, $7, $8, $9, $10
)
ON CONFLICT (run_id, row_no) DO NOTHING;
`

func (r *ResultRecorder) RecordResult(ctx context.Context, runID, adAccountID string, res domain.LookalikeResult) error {
	if runID == "" {
		return ErrMissingRunID
	}
	if res.Row <= 0 {
		return ErrMissingRow
	}

	_, err := r.db.ExecContext(ctx, insertResultSQL,
		runID,
		res.Row,
		adAccountID,
		res.Name,
		nullable(res.AudienceID),
		string(res.Status),
		nullable(res.Reason),
		res.SourceAudienceID,
		res.Country,
		res.Ratio,
	)
	// A replayed row for the same run is a no-op.
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
