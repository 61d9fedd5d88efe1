package ports

import (
	"context"

	"lookalike-audience-service/internal/audiences/core/domain"
)

type AudienceGatewayPort interface {
	// ListCustomAudiences returns every custom audience of the ad account,
	// following pagination until the last page.
	ListCustomAudiences(ctx context.Context, adAccountID string) ([]domain.CustomAudience, error)

	// CreateLookalike creates one lookalike audience and returns its id.
	CreateLookalike(ctx context.Context, adAccountID, name string, spec domain.LookalikeSpec) (string, error)
}

// APIError is implemented by gateway errors that carry the upstream
// error message verbatim.
type APIError interface {
	error
	APIErrorMessage() string
}
