package fiber

import (
	"context"
	"errors"
	"net/http"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type ListAudiencesUseCase interface {
	Execute(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error)
	Lookup(ctx context.Context, adAccountID string, ids []string) ([]domain.SourceAudience, error)
	Invalidate(adAccountID string)
}

type CreateLookalikeUseCase interface {
	Execute(ctx context.Context, in usecase.CreateLookalikeInput) (domain.LookalikeResult, error)
	BulkCreate(ctx context.Context, in usecase.BulkCreateInput) (usecase.BulkCreateResult, error)
}

type AudienceHandler struct {
	listUC         ListAudiencesUseCase
	createUC       CreateLookalikeUseCase
	defaultAccount string
}

// NewAudienceHandler serves the JSON API and the form UI. defaultAccount is
// used when a request names no ad account.
func NewAudienceHandler(listUC ListAudiencesUseCase, createUC CreateLookalikeUseCase, defaultAccount string) *AudienceHandler {
	return &AudienceHandler{
		listUC:         listUC,
		createUC:       createUC,
		defaultAccount: defaultAccount,
	}
}

func (h *AudienceHandler) account(id string) string {
	if id == "" {
		return h.defaultAccount
	}
	return id
}

// ListAudiences godoc
// @Summary List custom audiences
// @Description Returns the ad account's custom audiences, most recently updated first
// @Tags Audiences
// @Produce json
// @Param ad_account_id query string false "Ad account id (defaults to FB_AD_ACCOUNT_ID)"
// @Param search query string false "Case-insensitive name filter"
// @Param refresh query bool false "Bypass the audience cache"
// @Success 200 {object} ListAudiencesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /audiences [get]
func (h *AudienceHandler) ListAudiences(c *fiber.Ctx) error {
	account := h.account(c.Query("ad_account_id"))
	if c.QueryBool("refresh") {
		h.listUC.Invalidate(account)
	}

	audiences, err := h.listUC.Execute(c.UserContext(), usecase.ListAudiencesInput{
		AdAccountID: account,
		Search:      c.Query("search"),
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := ListAudiencesResponse{
		AdAccountID: usecase.NormalizeAdAccountID(account),
		Audiences:   make([]AudienceResponse, 0, len(audiences)),
	}
	for _, a := range audiences {
		resp.Audiences = append(resp.Audiences, toAudienceResponse(a))
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// CreateLookalike godoc
// @Summary Create one lookalike audience
// @Description Creates a lookalike from a source audience for one country and ratio
// @Tags Lookalikes
// @Accept json
// @Produce json
// @Param request body CreateLookalikeRequest true "Lookalike payload"
// @Success 201 {object} LookalikeResultResponse
// @Success 200 {object} LookalikeResultResponse "Skipped, name already used"
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} LookalikeResultResponse "Marketing API rejected the row"
// @Failure 500 {object} ErrorResponse
// @Router /lookalikes [post]
func (h *AudienceHandler) CreateLookalike(c *fiber.Ctx) error {
	var req CreateLookalikeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	account := h.account(req.AdAccountID)
	name := req.SourceAudienceName
	if name == "" && req.SourceAudienceID != "" {
		sources, err := h.listUC.Lookup(c.UserContext(), account, []string{req.SourceAudienceID})
		if err != nil {
			return writeError(c, err)
		}
		name = sources[0].Name
	}

	res, err := h.createUC.Execute(c.UserContext(), usecase.CreateLookalikeInput{
		AdAccountID:        account,
		SourceAudienceID:   req.SourceAudienceID,
		SourceAudienceName: name,
		Country:            req.Country,
		Ratio:              req.Ratio,
		Strategy:           domain.ConflictStrategy(req.Strategy),
	})
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusCreated
	switch res.Status {
	case domain.StatusCreated:
		h.listUC.Invalidate(account)
	case domain.StatusSkipped:
		status = http.StatusOK
	default:
		status = http.StatusBadGateway
	}

	return c.Status(status).JSON(toResultResponse(res))
}

// BulkCreateLookalikes godoc
// @Summary Bulk create lookalike audiences
// @Description Creates one lookalike per source x country x ratio, paced and reported per row
// @Tags Lookalikes
// @Accept json
// @Produce json
// @Param request body BulkCreateLookalikesRequest true "Bulk lookalike payload"
// @Success 201 {object} BulkCreateLookalikesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lookalikes/bulk [post]
func (h *AudienceHandler) BulkCreateLookalikes(c *fiber.Ctx) error {
	var req BulkCreateLookalikesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	res, err := h.runBatch(c.UserContext(), h.account(req.AdAccountID), req.SourceAudienceIDs, req.Countries, req.Ratios, req.Strategy)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(toBulkResponse(res))
}

// runBatch resolves source names and runs the batch. Shared by the JSON API
// and the form UI.
func (h *AudienceHandler) runBatch(
	ctx context.Context,
	account string,
	sourceIDs []string,
	countries []string,
	ratios []float64,
	strategy string,
) (usecase.BulkCreateResult, error) {
	if len(sourceIDs) == 0 || len(countries) == 0 || len(ratios) == 0 {
		return usecase.BulkCreateResult{}, usecase.ErrEmptyBatch
	}

	sources, err := h.listUC.Lookup(ctx, account, sourceIDs)
	if err != nil {
		return usecase.BulkCreateResult{}, err
	}

	res, err := h.createUC.BulkCreate(ctx, usecase.BulkCreateInput{
		AdAccountID: account,
		Sources:     sources,
		Countries:   countries,
		Ratios:      ratios,
		Strategy:    domain.ConflictStrategy(strategy),
	})
	if res.Created > 0 {
		h.listUC.Invalidate(account)
	}
	return res, err
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	resp := ErrorResponse{Error: code}
	if status != http.StatusInternalServerError {
		resp.Message = err.Error()
	}
	return c.Status(status).JSON(resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAdAccount),
		errors.Is(err, usecase.ErrInvalidLookalikeRequest),
		errors.Is(err, usecase.ErrUnknownSourceAudience),
		errors.Is(err, usecase.ErrEmptyBatch),
		errors.Is(err, usecase.ErrBatchTooLarge):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, usecase.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_server_error"
	}
}
