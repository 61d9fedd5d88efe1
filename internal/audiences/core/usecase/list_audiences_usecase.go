package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/ports"

	"github.com/patrickmn/go-cache"
)

var (
	ErrInvalidAdAccount      = errors.New("invalid ad account id")
	ErrUnknownSourceAudience = errors.New("unknown source audience")
	ErrUpstream              = errors.New("audience api request failed")
)

const DefaultAudienceCacheTTL = 10 * time.Minute

type ListAudiencesInput struct {
	AdAccountID string
	Search      string // case-insensitive substring of the audience name
}

type ListAudiencesUseCase struct {
	gateway ports.AudienceGatewayPort
	cache   *cache.Cache
}

func NewListAudiencesUseCase(gateway ports.AudienceGatewayPort, ttl time.Duration) *ListAudiencesUseCase {
	if ttl <= 0 {
		ttl = DefaultAudienceCacheTTL
	}
	return &ListAudiencesUseCase{
		gateway: gateway,
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Execute returns the account's custom audiences, newest update first.
func (uc *ListAudiencesUseCase) Execute(ctx context.Context, in ListAudiencesInput) ([]domain.CustomAudience, error) {
	all, err := uc.load(ctx, in.AdAccountID)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(in.Search))
	out := make([]domain.CustomAudience, 0, len(all))
	for _, a := range all {
		if term == "" || strings.Contains(strings.ToLower(a.Name), term) {
			out = append(out, a)
		}
	}

	return out, nil
}

// Lookup resolves audience ids to sources with their current names.
func (uc *ListAudiencesUseCase) Lookup(ctx context.Context, adAccountID string, ids []string) ([]domain.SourceAudience, error) {
	all, err := uc.load(ctx, adAccountID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.CustomAudience, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}

	sources := make([]domain.SourceAudience, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSourceAudience, id)
		}
		sources = append(sources, domain.SourceAudience{ID: a.ID, Name: a.Name})
	}

	return sources, nil
}

// Invalidate drops the cached listing so the next call refetches it.
func (uc *ListAudiencesUseCase) Invalidate(adAccountID string) {
	uc.cache.Delete(NormalizeAdAccountID(adAccountID))
}

func (uc *ListAudiencesUseCase) load(ctx context.Context, adAccountID string) ([]domain.CustomAudience, error) {
	id := NormalizeAdAccountID(adAccountID)
	if !isAdAccountID(id) {
		return nil, ErrInvalidAdAccount
	}

	if v, ok := uc.cache.Get(id); ok {
		return v.([]domain.CustomAudience), nil
	}

	audiences, err := uc.gateway.ListCustomAudiences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	sort.SliceStable(audiences, func(i, j int) bool {
		return audiences[i].UpdatedAt.After(audiences[j].UpdatedAt)
	})

	uc.cache.Set(id, audiences, cache.DefaultExpiration)
	return audiences, nil
}

// NormalizeAdAccountID strips surrounding space and the "act_" prefix.
func NormalizeAdAccountID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "act_")
}

func isAdAccountID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
