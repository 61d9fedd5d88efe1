package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/ports"
	"lookalike-audience-service/internal/telemetry"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v19.0"

	audiencePageLimit = 500
	maxAudiencePages  = 200

	opListAudiences   = "list_custom_audiences"
	opCreateLookalike = "create_lookalike"
)

var audienceFields = []string{
	"id",
	"name",
	"description",
	"approximate_count_lower_bound",
	"audience_subtype",
	"time_updated",
}

var ErrMissingAccessToken = errors.New("graph: access token is required")

type Config struct {
	BaseURL     string
	APIVersion  string
	AccessToken string
	Timeout     time.Duration
}

// Client talks to the Marketing API custom audience edges of an ad account.
type Client struct {
	baseURL *url.URL
	version string
	token   string

	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *telemetry.Collectors
	logger  zerolog.Logger
}

var _ ports.AudienceGatewayPort = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCollectors(m *telemetry.Collectors) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, ErrMissingAccessToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("graph: invalid base url: %w", err)
	}

	c := &Client{
		baseURL: base,
		version: strings.Trim(cfg.APIVersion, "/"),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker("graph-api", c.logger)

	return c, nil
}

func (c *Client) ListCustomAudiences(ctx context.Context, adAccountID string) ([]domain.CustomAudience, error) {
	params := url.Values{}
	params.Set("fields", strings.Join(audienceFields, ","))
	params.Set("limit", fmt.Sprint(audiencePageLimit))
	params.Set("access_token", c.token)

	next := c.edgeURL(adAccountID) + "?" + params.Encode()

	var out []domain.CustomAudience
	for page := 0; next != ""; page++ {
		if page >= maxAudiencePages {
			return nil, fmt.Errorf("graph: custom audience listing exceeded %d pages", maxAudiencePages)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		var body customAudiencePage
		err = c.observe(opListAudiences, func() error {
			_, err := c.breaker.Execute(func() (any, error) {
				return nil, c.roundTrip(req, &body)
			})
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, it := range body.Data {
			out = append(out, it.toDomain())
		}

		next = ""
		if body.Paging != nil {
			next = body.Paging.Next
		}
	}

	return out, nil
}

func (c *Client) CreateLookalike(ctx context.Context, adAccountID, name string, spec domain.LookalikeSpec) (string, error) {
	specJSON, err := json.Marshal(newLookalikeSpecPayload(spec))
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("subtype", "LOOKALIKE")
	form.Set("origin_audience_id", spec.OriginAudienceID)
	form.Set("lookalike_spec", string(specJSON))
	form.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.edgeURL(adAccountID), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Every row must reach the API, so creates bypass the breaker.
	var body createResponse
	if err := c.observe(opCreateLookalike, func() error { return c.roundTrip(req, &body) }); err != nil {
		return "", err
	}
	if body.ID == "" {
		return "", fmt.Errorf("graph: create lookalike %q: response carried no id", name)
	}

	return body.ID, nil
}

func (c *Client) edgeURL(adAccountID string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + c.version + "/act_" + url.PathEscape(adAccountID) + "/customaudiences"
	return u.String()
}

// observe times one call and counts it by operation and outcome.
func (c *Client) observe(op string, call func() error) error {
	start := time.Now()
	err := call()

	c.metrics.ObserveGraphCall(op, outcomeOf(err), time.Since(start))
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", op).Msg("graph request failed")
	}
	return err
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, query token included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("graph: %s %s: %w", req.Method, redactURL(req.URL), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("graph: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			env.Error.StatusCode = resp.StatusCode
			return env.Error
		}
		return newStatusError(resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("graph: decode response: %w", err)
	}
	return nil
}

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return telemetry.OutcomeBreakerOpen
	case errors.As(err, &apiErr):
		return telemetry.OutcomeAPIError
	default:
		return telemetry.OutcomeTransportError
	}
}

// redactURL drops the query so the access token never reaches logs.
func redactURL(u *url.URL) string {
	cp := *u
	cp.RawQuery = ""
	return cp.String()
}
