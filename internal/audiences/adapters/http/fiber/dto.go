package fiber

import (
	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"
)

type AudienceResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ApproximateCount *int64 `json:"approximate_count,omitempty"`
	Subtype          string `json:"subtype,omitempty"`
	UpdatedAt        int64  `json:"updated_at,omitempty"` // unix seconds
}

type ListAudiencesResponse struct {
	AdAccountID string             `json:"ad_account_id"`
	Audiences   []AudienceResponse `json:"audiences"`
}

// CreateLookalikeRequest represents a single lookalike creation payload.
// SourceAudienceName is looked up from the account when omitted.
// @Description Single lookalike DTO
type CreateLookalikeRequest struct {
	AdAccountID        string  `json:"ad_account_id" example:"1234567890"`
	SourceAudienceID   string  `json:"source_audience_id" example:"23850000000000001"`
	SourceAudienceName string  `json:"source_audience_name,omitempty" example:"Purchasers 180d"`
	Country            string  `json:"country" example:"TW"`
	Ratio              float64 `json:"ratio" example:"0.01"`
	Strategy           string  `json:"strategy,omitempty" example:"skip"`
}

// BulkCreateLookalikesRequest expands to one row per source x country x ratio.
type BulkCreateLookalikesRequest struct {
	AdAccountID       string    `json:"ad_account_id" example:"1234567890"`
	SourceAudienceIDs []string  `json:"source_audience_ids"`
	Countries         []string  `json:"countries"`
	Ratios            []float64 `json:"ratios"`
	Strategy          string    `json:"strategy,omitempty" example:"skip"`
}

type LookalikeResultResponse struct {
	Name             string  `json:"name"`
	AudienceID       string  `json:"audience_id,omitempty"`
	Status           string  `json:"status" example:"created"`
	Reason           string  `json:"reason,omitempty"`
	SourceAudienceID string  `json:"source_audience_id"`
	Country          string  `json:"country"`
	Ratio            float64 `json:"ratio"`
}

type BulkCreateLookalikesResponse struct {
	RunID   string                    `json:"run_id"`
	Total   int                       `json:"total"`
	Created int                       `json:"created"`
	Skipped int                       `json:"skipped"`
	Failed  int                       `json:"failed"`
	Results []LookalikeResultResponse `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message" example:"ratio failed \"lte\""`
}

func toAudienceResponse(a domain.CustomAudience) AudienceResponse {
	resp := AudienceResponse{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		ApproximateCount: a.ApproximateCount,
		Subtype:          a.Subtype,
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = a.UpdatedAt.Unix()
	}
	return resp
}

func toResultResponse(r domain.LookalikeResult) LookalikeResultResponse {
	return LookalikeResultResponse{
		Name:             r.Name,
		AudienceID:       r.AudienceID,
		Status:           string(r.Status),
		Reason:           r.Reason,
		SourceAudienceID: r.SourceAudienceID,
		Country:          r.Country,
		Ratio:            r.Ratio,
	}
}

func toBulkResponse(res usecase.BulkCreateResult) BulkCreateLookalikesResponse {
	resp := BulkCreateLookalikesResponse{
		RunID:   res.RunID,
		Total:   res.Total,
		Created: res.Created,
		Skipped: res.Skipped,
		Failed:  res.Failed,
		Results: make([]LookalikeResultResponse, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		resp.Results = append(resp.Results, toResultResponse(r))
	}
	return resp
}
