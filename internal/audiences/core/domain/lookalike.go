package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ratio bounds accepted by the Marketing API for lookalike_spec.ratio.
const (
	MinRatio = 0.01
	MaxRatio = 0.20
)

type ConflictStrategy string

const (
	// ConflictSkip reports a name collision as skipped.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictStrict reports a name collision as failed.
	ConflictStrict ConflictStrategy = "strict"
)

func (s ConflictStrategy) Valid() bool {
	return s == ConflictSkip || s == ConflictStrict
}

type ResultStatus string

const (
	StatusCreated ResultStatus = "created"
	StatusSkipped ResultStatus = "skipped"
	StatusFailed  ResultStatus = "failed"
)

type LookalikeRequest struct {
	AdAccountID string
	Source      SourceAudience
	Country     string
	Ratio       float64
}

// LookalikeSpec mirrors the lookalike_spec object sent to the API.
type LookalikeSpec struct {
	OriginAudienceID string
	StartingRatio    float64
	Ratio            float64
	Countries        []string
}

type LookalikeResult struct {
	// Row is the 1-based position within its run. Names can repeat inside a
	// run, rows cannot.
	Row              int
	Name             string
	AudienceID       string
	Status           ResultStatus
	Reason           string
	SourceAudienceID string
	Country          string
	Ratio            float64
}

// Name follows "<COUNTRY>-<percent>%-<source name>", e.g. "TW-2%-Buyers 30d".
func (r LookalikeRequest) Name() string {
	return LookalikeName(r.Country, r.Ratio, r.Source.Name)
}

func (r LookalikeRequest) Spec() LookalikeSpec {
	return LookalikeSpec{
		OriginAudienceID: r.Source.ID,
		StartingRatio:    StartingRatio(r.Ratio),
		Ratio:            RoundRatio(r.Ratio),
		Countries:        []string{strings.ToUpper(r.Country)},
	}
}

func LookalikeName(country string, ratio float64, sourceName string) string {
	return fmt.Sprintf("%s-%d%%-%s", strings.ToUpper(country), RatioPercent(ratio), sourceName)
}

// RatioPercent converts a ratio to whole percent, rounding to the nearest point.
func RatioPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func RoundRatio(ratio float64) float64 {
	return float64(RatioPercent(ratio)) / 100
}

// StartingRatio is one percentage point below ratio, floored at zero.
func StartingRatio(ratio float64) float64 {
	p := RatioPercent(ratio)
	if p <= 1 {
		return 0
	}
	return float64(p-1) / 100
}

// IsWholePercent reports whether ratio sits on a 0.01 step.
func IsWholePercent(ratio float64) bool {
	return math.Abs(ratio*100-math.Round(ratio*100)) < 1e-9
}

// ParseCountries splits a comma separated list, trimming and upper-casing
// each code and dropping empty entries.
func ParseCountries(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		c := strings.ToUpper(strings.TrimSpace(part))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func ParseRatios(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		r, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ratio %q: %w", p, err)
		}
		out = append(out, r)
	}
	return out, nil
}
