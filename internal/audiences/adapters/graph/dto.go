package graph

import (
	"time"

	"lookalike-audience-service/internal/audiences/core/domain"
)

type customAudienceItem struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	Description                string `json:"description"`
	ApproximateCountLowerBound *int64 `json:"approximate_count_lower_bound"`
	AudienceSubtype            string `json:"audience_subtype"`
	TimeUpdated                int64  `json:"time_updated"` // unix seconds
}

type paging struct {
	Next string `json:"next"`
}

type customAudiencePage struct {
	Data   []customAudienceItem `json:"data"`
	Paging *paging              `json:"paging"`
}

type createResponse struct {
	ID string `json:"id"`
}

type locationSpec struct {
	Countries []string `json:"countries"`
}

type lookalikeSpecPayload struct {
	OriginAudienceID string       `json:"origin_audience_id"`
	StartingRatio    float64      `json:"starting_ratio"`
	Ratio            float64      `json:"ratio"`
	LocationSpec     locationSpec `json:"location_spec"`
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

func (it customAudienceItem) toDomain() domain.CustomAudience {
	a := domain.CustomAudience{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Subtype:     it.AudienceSubtype,
	}
	// The API reports -1 while the size is still being computed.
	if it.ApproximateCountLowerBound != nil && *it.ApproximateCountLowerBound >= 0 {
		n := *it.ApproximateCountLowerBound
		a.ApproximateCount = &n
	}
	if it.TimeUpdated > 0 {
		a.UpdatedAt = time.Unix(it.TimeUpdated, 0).UTC()
	}
	return a
}

func newLookalikeSpecPayload(spec domain.LookalikeSpec) lookalikeSpecPayload {
	return lookalikeSpecPayload{
		OriginAudienceID: spec.OriginAudienceID,
		StartingRatio:    spec.StartingRatio,
		Ratio:            spec.Ratio,
		LocationSpec:     locationSpec{Countries: spec.Countries},
	}
}
