package postgres

import (
	"context"
	"fmt"
	"time"

	"lookalike-audience-service/internal/history/core/domain"
	"lookalike-audience-service/internal/history/core/ports"

	"github.com/lib/pq"
)

type HistoryRepository struct {
	db DB
}

func NewHistoryRepository(db DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

var _ ports.HistoryReaderPort = (*HistoryRepository)(nil)

const countColumns = `
    COUNT(*) AS total,
    COUNT(*) FILTER (WHERE status = 'created') AS created,
    COUNT(*) FILTER (WHERE status = 'skipped') AS skipped,
    COUNT(*) FILTER (WHERE status = 'failed') AS failed`

func (r *HistoryRepository) QueryHistory(ctx context.Context, f ports.HistoryFilter) (*domain.Summary, error) {
	where := "ad_account_id = $1 AND created_at BETWEEN $2 AND $3"
	args := []any{f.AdAccountID, time.Unix(f.From, 0).UTC(), time.Unix(f.To, 0).UTC()}

	if len(f.Countries) > 0 {
		where += fmt.Sprintf(" AND country = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(f.Countries))
	}

	res := &domain.Summary{
		AdAccountID: f.AdAccountID,
		From:        f.From,
		To:          f.To,
		GroupBy:     f.GroupBy,
	}

	switch f.GroupBy {
	case ports.GroupByNone:
		return r.queryTotals(ctx, where, args, res)
	case ports.GroupByStatus:
		return r.queryGrouped(ctx, "status", where, args, res, scanText)
	case ports.GroupByCountry:
		return r.queryGrouped(ctx, "country", where, args, res, scanText)
	case ports.GroupByDay:
		return r.queryGrouped(ctx, "date_trunc('day', created_at)", where, args, res, scanDay)
	default:
		return nil, fmt.Errorf("unsupported group_by: %s", f.GroupBy)
	}
}

func (r *HistoryRepository) queryTotals(ctx context.Context, where string, args []any, res *domain.Summary) (*domain.Summary, error) {
	query := `
SELECT` + countColumns + `
FROM lookalike_results
WHERE ` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		c := &res.Counts
		if err := rows.Scan(&c.Total, &c.Created, &c.Skipped, &c.Failed); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return res, nil
}

// keyScanner scans the leading group key column and formats it.
type keyScanner func(rows RowScanner, c *domain.Counts) (string, error)

func scanText(rows RowScanner, c *domain.Counts) (string, error) {
	var key string
	err := rows.Scan(&key, &c.Total, &c.Created, &c.Skipped, &c.Failed)
	return key, err
}

func scanDay(rows RowScanner, c *domain.Counts) (string, error) {
	var ts time.Time
	if err := rows.Scan(&ts, &c.Total, &c.Created, &c.Skipped, &c.Failed); err != nil {
		return "", err
	}
	return ts.UTC().Format(time.RFC3339), nil
}

func (r *HistoryRepository) queryGrouped(
	ctx context.Context,
	keyExpr string,
	where string,
	args []any,
	res *domain.Summary,
	scan keyScanner,
) (*domain.Summary, error) {
	query := fmt.Sprintf(`
SELECT
    %s AS bucket,%s
FROM lookalike_results
WHERE %s
GROUP BY bucket
ORDER BY bucket
`, keyExpr, countColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g domain.SummaryGroup
		key, err := scan(rows, &g.Counts)
		if err != nil {
			return nil, err
		}
		g.Key = key

		res.Groups = append(res.Groups, g)
		res.Counts.Add(g.Counts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return res, nil
}
