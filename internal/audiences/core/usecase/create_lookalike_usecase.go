package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidLookalikeRequest = errors.New("invalid lookalike request")
	ErrEmptyBatch              = errors.New("batch needs at least one source, country and ratio")
	ErrBatchTooLarge           = errors.New("batch exceeds maximum size")
)

const (
	DefaultMaxBatchSize = 500

	duplicateNameMarker = "name is already used"
	duplicateNameReason = "audience with the same name already exists"
)

type CreateLookalikeInput struct {
	AdAccountID        string                  `validate:"required,number"`
	SourceAudienceID   string                  `validate:"required,number"`
	SourceAudienceName string                  `validate:"required"`
	Country            string                  `validate:"required,iso3166_1_alpha2"`
	Ratio              float64                 `validate:"gte=0.01,lte=0.2"`
	Strategy           domain.ConflictStrategy `validate:"omitempty,oneof=skip strict"`
}

type BulkCreateInput struct {
	AdAccountID string
	Sources     []domain.SourceAudience
	Countries   []string
	Ratios      []float64
	Strategy    domain.ConflictStrategy
}

type BulkCreateResult struct {
	RunID   string
	Total   int
	Created int
	Skipped int
	Failed  int
	Results []domain.LookalikeResult
}

type CreateLookalikeUseCase struct {
	gateway   ports.AudienceGatewayPort
	pacer     ports.Pacer
	recorders []ports.ResultRecorderPort
	validate  *validator.Validate
	maxBatch  int
	logger    zerolog.Logger
	newRunID  func() string
}

// NewCreateLookalikeUseCase wires the gateway with an optional pacer (nil
// disables pacing) and any number of result recorders.
func NewCreateLookalikeUseCase(
	gateway ports.AudienceGatewayPort,
	pacer ports.Pacer,
	maxBatch int,
	logger zerolog.Logger,
	recorders ...ports.ResultRecorderPort,
) *CreateLookalikeUseCase {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &CreateLookalikeUseCase{
		gateway:   gateway,
		pacer:     pacer,
		recorders: recorders,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		maxBatch:  maxBatch,
		logger:    logger,
		newRunID:  func() string { return uuid.NewString() },
	}
}

// Execute creates a single lookalike audience. API failures are reported in
// the result; the error is non-nil only for invalid input.
func (uc *CreateLookalikeUseCase) Execute(ctx context.Context, in CreateLookalikeInput) (domain.LookalikeResult, error) {
	req, strategy, err := uc.prepare(in)
	if err != nil {
		return domain.LookalikeResult{}, err
	}

	res := uc.create(ctx, req, strategy)
	res.Row = 1
	uc.record(ctx, uc.newRunID(), req.AdAccountID, res)

	return res, nil
}

// BulkCreate expands sources x countries x ratios into rows and creates them
// one at a time. Every row is validated before the first call.
func (uc *CreateLookalikeUseCase) BulkCreate(ctx context.Context, in BulkCreateInput) (BulkCreateResult, error) {
	res := BulkCreateResult{}

	total := PlannedRows(len(in.Sources), len(in.Countries), len(in.Ratios))
	if total == 0 {
		return res, ErrEmptyBatch
	}
	if total > uc.maxBatch {
		return res, fmt.Errorf("%w: %d rows, limit %d", ErrBatchTooLarge, total, uc.maxBatch)
	}

	rows := expandRows(in)

	reqs := make([]domain.LookalikeRequest, 0, len(rows))
	for _, row := range rows {
		req, _, err := uc.prepare(row)
		if err != nil {
			return res, err
		}
		reqs = append(reqs, req)
	}

	strategy := in.Strategy
	if strategy == "" {
		strategy = domain.ConflictSkip
	}

	res.RunID = uc.newRunID()
	res.Total = total
	res.Results = make([]domain.LookalikeResult, 0, total)

	log := uc.logger.With().Str("run_id", res.RunID).Logger()
	log.Info().Int("rows", total).Str("strategy", string(strategy)).Msg("starting lookalike batch")

	for i, req := range reqs {
		if uc.pacer != nil {
			if err := uc.pacer.Wait(ctx); err != nil {
				log.Warn().Err(err).Int("done", i).Msg("lookalike batch interrupted")
				return res, err
			}
		}

		r := uc.create(ctx, req, strategy)
		r.Row = i + 1
		uc.record(ctx, res.RunID, req.AdAccountID, r)

		switch r.Status {
		case domain.StatusCreated:
			res.Created++
		case domain.StatusSkipped:
			res.Skipped++
		default:
			res.Failed++
		}
		res.Results = append(res.Results, r)

		log.Debug().
			Int("row", i+1).
			Str("name", r.Name).
			Str("status", string(r.Status)).
			Str("reason", r.Reason).
			Msg("lookalike row done")
	}

	log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("lookalike batch finished")

	return res, nil
}

// PlannedRows is the size of a sources x countries x ratios batch.
func PlannedRows(sources, countries, ratios int) int {
	return sources * countries * ratios
}

func expandRows(in BulkCreateInput) []CreateLookalikeInput {
	rows := make([]CreateLookalikeInput, 0, len(in.Sources)*len(in.Countries)*len(in.Ratios))
	for _, src := range in.Sources {
		for _, country := range in.Countries {
			for _, ratio := range in.Ratios {
				rows = append(rows, CreateLookalikeInput{
					AdAccountID:        in.AdAccountID,
					SourceAudienceID:   src.ID,
					SourceAudienceName: src.Name,
					Country:            country,
					Ratio:              ratio,
					Strategy:           in.Strategy,
				})
			}
		}
	}
	return rows
}

func (uc *CreateLookalikeUseCase) prepare(in CreateLookalikeInput) (domain.LookalikeRequest, domain.ConflictStrategy, error) {
	in.AdAccountID = NormalizeAdAccountID(in.AdAccountID)
	in.SourceAudienceID = strings.TrimSpace(in.SourceAudienceID)
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))

	if err := uc.validate.Struct(in); err != nil {
		return domain.LookalikeRequest{}, "", fmt.Errorf("%w: %s", ErrInvalidLookalikeRequest, describeValidation(err))
	}
	if !domain.IsWholePercent(in.Ratio) {
		return domain.LookalikeRequest{}, "", fmt.Errorf("%w: ratio %v is not a whole percent", ErrInvalidLookalikeRequest, in.Ratio)
	}

	strategy := in.Strategy
	if strategy == "" {
		strategy = domain.ConflictSkip
	}

	return domain.LookalikeRequest{
		AdAccountID: in.AdAccountID,
		Source:      domain.SourceAudience{ID: in.SourceAudienceID, Name: in.SourceAudienceName},
		Country:     in.Country,
		Ratio:       domain.RoundRatio(in.Ratio),
	}, strategy, nil
}

func (uc *CreateLookalikeUseCase) create(ctx context.Context, req domain.LookalikeRequest, strategy domain.ConflictStrategy) domain.LookalikeResult {
	res := domain.LookalikeResult{
		Name:             req.Name(),
		SourceAudienceID: req.Source.ID,
		Country:          req.Country,
		Ratio:            req.Ratio,
	}

	id, err := uc.gateway.CreateLookalike(ctx, req.AdAccountID, res.Name, req.Spec())
	if err == nil {
		res.Status = domain.StatusCreated
		res.AudienceID = id
		return res
	}

	reason := err.Error()
	var apiErr ports.APIError
	if errors.As(err, &apiErr) {
		reason = apiErr.APIErrorMessage()
		if strategy == domain.ConflictSkip && strings.Contains(reason, duplicateNameMarker) {
			res.Status = domain.StatusSkipped
			res.Reason = duplicateNameReason
			return res
		}
	}

	res.Status = domain.StatusFailed
	res.Reason = reason
	return res
}

func (uc *CreateLookalikeUseCase) record(ctx context.Context, runID, adAccountID string, r domain.LookalikeResult) {
	for _, rec := range uc.recorders {
		if err := rec.RecordResult(ctx, runID, adAccountID, r); err != nil {
			uc.logger.Warn().Err(err).Str("run_id", runID).Str("name", r.Name).Msg("failed to record lookalike result")
		}
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
