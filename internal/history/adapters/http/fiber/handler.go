package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lookalike-audience-service/internal/history/core/domain"
	"lookalike-audience-service/internal/history/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetHistoryUseCase interface {
	Execute(ctx context.Context, in usecase.GetHistoryInput) (*domain.Summary, error)
}

type HistoryHandler struct {
	uc GetHistoryUseCase
}

func NewHistoryHandler(uc GetHistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistory godoc
// @Summary Summarize recorded lookalike runs
// @Description Counts created, skipped and failed rows for an ad account, optionally grouped
// @Tags History
// @Produce json
// @Param ad_account_id query string true "Ad account id (with or without act_)"
// @Param from query int true "From timestamp (unix seconds)"
// @Param to query int true "To timestamp (unix seconds)"
// @Param group_by query string false "Group by: status | country | day"
// @Param countries query string false "Comma separated country codes"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /history [get]
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	from, err := strconv.ParseInt(c.Query("from"), 10, 64)
	if err != nil {
		return badQuery(c, "invalid 'from' parameter")
	}
	to, err := strconv.ParseInt(c.Query("to"), 10, 64)
	if err != nil {
		return badQuery(c, "invalid 'to' parameter")
	}

	var countries []string
	if raw := c.Query("countries"); raw != "" {
		countries = strings.Split(raw, ",")
	}

	res, err := h.uc.Execute(c.UserContext(), usecase.GetHistoryInput{
		AdAccountID: c.Query("ad_account_id"),
		From:        from,
		To:          to,
		Countries:   countries,
		GroupBy:     c.Query("group_by"),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidHistoryQuery),
			errors.Is(err, usecase.ErrInvalidTimeRange),
			errors.Is(err, usecase.ErrInvalidGroupBy),
			errors.Is(err, usecase.ErrInvalidCountry):
			return badQuery(c, err.Error())
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := HistoryResponse{
		AdAccountID:    res.AdAccountID,
		From:           res.From,
		To:             res.To,
		CountsResponse: toCounts(res.Counts),
		GroupBy:        res.GroupBy,
		Groups:         make([]HistoryGroupResponse, 0, len(res.Groups)),
	}
	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, HistoryGroupResponse{
			Key:            g.Key,
			CountsResponse: toCounts(g.Counts),
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func toCounts(c domain.Counts) CountsResponse {
	return CountsResponse{Total: c.Total, Created: c.Created, Skipped: c.Skipped, Failed: c.Failed}
}

func badQuery(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_history_query",
		Message: msg,
	})
}
