package ports

import (
	"context"

	"lookalike-audience-service/internal/history/core/domain"
)

const (
	GroupByNone    = ""
	GroupByStatus  = "status"
	GroupByCountry = "country"
	GroupByDay     = "day"
)

type HistoryFilter struct {
	AdAccountID string
	From        int64
	To          int64
	Countries   []string // optional
	GroupBy     string
}

type HistoryReaderPort interface {
	QueryHistory(ctx context.Context, f HistoryFilter) (*domain.Summary, error)
}
