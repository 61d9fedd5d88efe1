package usecase

import (
	"context"
	"errors"
	"strings"

	"lookalike-audience-service/internal/history/core/domain"
	"lookalike-audience-service/internal/history/core/ports"
)

var (
	ErrInvalidHistoryQuery = errors.New("invalid history query")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrInvalidGroupBy      = errors.New("invalid group_by value")
	ErrInvalidCountry      = errors.New("invalid country code")
)

type GetHistoryInput struct {
	AdAccountID string
	From        int64
	To          int64
	Countries   []string
	GroupBy     string
}

type GetHistoryUseCase struct {
	reader ports.HistoryReaderPort
}

func NewGetHistoryUseCase(reader ports.HistoryReaderPort) *GetHistoryUseCase {
	return &GetHistoryUseCase{reader: reader}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) (*domain.Summary, error) {
	account := strings.TrimPrefix(strings.TrimSpace(in.AdAccountID), "act_")
	if account == "" {
		return nil, ErrInvalidHistoryQuery
	}

	if in.From <= 0 || in.To <= 0 || in.From > in.To {
		return nil, ErrInvalidTimeRange
	}

	switch in.GroupBy {
	case ports.GroupByNone, ports.GroupByStatus, ports.GroupByCountry, ports.GroupByDay:
	default:
		return nil, ErrInvalidGroupBy
	}

	var countries []string
	for _, c := range in.Countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if len(c) != 2 {
			return nil, ErrInvalidCountry
		}
		countries = append(countries, c)
	}

	return uc.reader.QueryHistory(ctx, ports.HistoryFilter{
		AdAccountID: account,
		From:        in.From,
		To:          in.To,
		Countries:   countries,
		GroupBy:     in.GroupBy,
	})
}
