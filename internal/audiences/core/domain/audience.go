package domain

import "time"

type CustomAudience struct {
	ID               string
	Name             string
	Description      string
	ApproximateCount *int64 // nil when the API reports no size
	Subtype          string
	UpdatedAt        time.Time
}

// SourceAudience is the seed a lookalike is generated from.
type SourceAudience struct {
	ID   string
	Name string
}
