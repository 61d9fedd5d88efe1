package ports

import (
	"context"

	"lookalike-audience-service/internal/audiences/core/domain"
)

type ResultRecorderPort interface {
	RecordResult(ctx context.Context, runID, adAccountID string, r domain.LookalikeResult) error
}

// Pacer spaces consecutive create calls. Wait blocks until the next call
// may start or ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}
