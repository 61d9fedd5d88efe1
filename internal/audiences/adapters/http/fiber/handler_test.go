package fiber_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpadapter "lookalike-audience-service/internal/audiences/adapters/http/fiber"
	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListUC struct {
	ExecuteFn func(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error)
	LookupFn  func(ctx context.Context, adAccountID string, ids []string) ([]domain.SourceAudience, error)

	lastInput   usecase.ListAudiencesInput
	lookupIDs   []string
	invalidated []string
}

func (f *fakeListUC) Execute(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error) {
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return nil, nil
}

func (f *fakeListUC) Lookup(ctx context.Context, adAccountID string, ids []string) ([]domain.SourceAudience, error) {
	f.lookupIDs = ids
	if f.LookupFn != nil {
		return f.LookupFn(ctx, adAccountID, ids)
	}
	out := make([]domain.SourceAudience, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SourceAudience{ID: id, Name: "Source " + id})
	}
	return out, nil
}

func (f *fakeListUC) Invalidate(adAccountID string) {
	f.invalidated = append(f.invalidated, adAccountID)
}

type fakeCreateUC struct {
	ExecuteFn func(ctx context.Context, in usecase.CreateLookalikeInput) (domain.LookalikeResult, error)
	BulkFn    func(ctx context.Context, in usecase.BulkCreateInput) (usecase.BulkCreateResult, error)

	lastInput usecase.CreateLookalikeInput
	lastBulk  usecase.BulkCreateInput
	bulkCalls int
}

func (f *fakeCreateUC) Execute(ctx context.Context, in usecase.CreateLookalikeInput) (domain.LookalikeResult, error) {
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return domain.LookalikeResult{Name: "TW-1%-x", Status: domain.StatusCreated, AudienceID: "900"}, nil
}

func (f *fakeCreateUC) BulkCreate(ctx context.Context, in usecase.BulkCreateInput) (usecase.BulkCreateResult, error) {
	f.bulkCalls++
	f.lastBulk = in
	if f.BulkFn != nil {
		return f.BulkFn(ctx, in)
	}
	return usecase.BulkCreateResult{}, nil
}

func setupApp(t *testing.T, list *fakeListUC, create *fakeCreateUC) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewAudienceHandler(list, create, "42")
	app.Get("/", h.Index)
	app.Post("/", h.Submit)
	app.Get("/audiences", h.ListAudiences)
	app.Post("/lookalikes", h.CreateLookalike)
	app.Post("/lookalikes/bulk", h.BulkCreateLookalikes)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ---- GET /audiences ----

func TestListAudiences_Success(t *testing.T) {
	size := int64(12000)
	list := &fakeListUC{
		ExecuteFn: func(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error) {
			return []domain.CustomAudience{
				{ID: "1", Name: "Buyers", ApproximateCount: &size, UpdatedAt: time.Unix(1700000000, 0)},
			}, nil
		},
	}
	app := setupApp(t, list, &fakeCreateUC{})

	req := httptest.NewRequest(http.MethodGet, "/audiences?search=buy", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "42", list.lastInput.AdAccountID, "default account is used")
	assert.Equal(t, "buy", list.lastInput.Search)

	var body httpadapter.ListAudiencesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Audiences, 1)
	assert.Equal(t, "Buyers", body.Audiences[0].Name)
	assert.Equal(t, int64(1700000000), body.Audiences[0].UpdatedAt)
	assert.Equal(t, int64(12000), *body.Audiences[0].ApproximateCount)
}

func TestListAudiences_RefreshInvalidates(t *testing.T) {
	list := &fakeListUC{}
	app := setupApp(t, list, &fakeCreateUC{})

	req := httptest.NewRequest(http.MethodGet, "/audiences?ad_account_id=act_77&refresh=true", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"act_77"}, list.invalidated)
}

func TestListAudiences_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid_account", usecase.ErrInvalidAdAccount, http.StatusBadRequest, "invalid_request"},
		{"upstream", fmt.Errorf("%w: boom", usecase.ErrUpstream), http.StatusBadGateway, "upstream_error"},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := &fakeListUC{
				ExecuteFn: func(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error) {
					return nil, tt.err
				},
			}
			app := setupApp(t, list, &fakeCreateUC{})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/audiences", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body httpadapter.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

// ---- POST /lookalikes ----

func TestCreateLookalike_Created(t *testing.T) {
	list := &fakeListUC{}
	create := &fakeCreateUC{}
	app := setupApp(t, list, create)

	resp := postJSON(t, app, "/lookalikes", httpadapter.CreateLookalikeRequest{
		SourceAudienceID: "111",
		Country:          "tw",
		Ratio:            0.01,
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"111"}, list.lookupIDs, "missing name is looked up")
	assert.Equal(t, "Source 111", create.lastInput.SourceAudienceName)
	assert.Equal(t, "42", create.lastInput.AdAccountID)
	assert.Equal(t, []string{"42"}, list.invalidated)
}

func TestCreateLookalike_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ResultStatus
		want   int
	}{
		{"skipped", domain.StatusSkipped, http.StatusOK},
		{"failed", domain.StatusFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := &fakeCreateUC{
				ExecuteFn: func(ctx context.Context, in usecase.CreateLookalikeInput) (domain.LookalikeResult, error) {
					return domain.LookalikeResult{Name: "TW-1%-Buyers", Status: tt.status, Reason: "r"}, nil
				},
			}
			list := &fakeListUC{}
			app := setupApp(t, list, create)

			resp := postJSON(t, app, "/lookalikes", httpadapter.CreateLookalikeRequest{
				SourceAudienceID:   "111",
				SourceAudienceName: "Buyers",
				Country:            "TW",
				Ratio:              0.01,
			})

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Nil(t, list.lookupIDs, "name given, no lookup")
			assert.Empty(t, list.invalidated)

			var body httpadapter.LookalikeResultResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.status), body.Status)
			assert.Equal(t, "r", body.Reason)
		})
	}
}

func TestCreateLookalike_InvalidInput(t *testing.T) {
	create := &fakeCreateUC{
		ExecuteFn: func(ctx context.Context, in usecase.CreateLookalikeInput) (domain.LookalikeResult, error) {
			return domain.LookalikeResult{}, fmt.Errorf("%w: Ratio failed \"lte\"", usecase.ErrInvalidLookalikeRequest)
		},
	}
	app := setupApp(t, &fakeListUC{}, create)

	resp := postJSON(t, app, "/lookalikes", httpadapter.CreateLookalikeRequest{
		SourceAudienceID:   "111",
		SourceAudienceName: "Buyers",
		Country:            "TW",
		Ratio:              0.5,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateLookalike_InvalidJSON(t *testing.T) {
	app := setupApp(t, &fakeListUC{}, &fakeCreateUC{})

	req := httptest.NewRequest(http.MethodPost, "/lookalikes", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ---- POST /lookalikes/bulk ----

func TestBulkCreateLookalikes_Success(t *testing.T) {
	list := &fakeListUC{}
	create := &fakeCreateUC{
		BulkFn: func(ctx context.Context, in usecase.BulkCreateInput) (usecase.BulkCreateResult, error) {
			return usecase.BulkCreateResult{
				RunID:   "run-1",
				Total:   2,
				Created: 1,
				Failed:  1,
				Results: []domain.LookalikeResult{
					{Name: "TW-1%-Source 111", Status: domain.StatusCreated, AudienceID: "900"},
					{Name: "US-1%-Source 111", Status: domain.StatusFailed, Reason: "Invalid parameter"},
				},
			}, nil
		},
	}
	app := setupApp(t, list, create)

	resp := postJSON(t, app, "/lookalikes/bulk", httpadapter.BulkCreateLookalikesRequest{
		AdAccountID:       "act_42",
		SourceAudienceIDs: []string{"111"},
		Countries:         []string{"TW", "US"},
		Ratios:            []float64{0.01},
		Strategy:          "strict",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, domain.ConflictStrict, create.lastBulk.Strategy)
	assert.Equal(t, []domain.SourceAudience{{ID: "111", Name: "Source 111"}}, create.lastBulk.Sources)
	assert.Equal(t, []string{"act_42"}, list.invalidated)

	var body httpadapter.BulkCreateLookalikesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "run-1", body.RunID)
	assert.Equal(t, 1, body.Created)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Invalid parameter", body.Results[1].Reason)
}

func TestBulkCreateLookalikes_EmptyBatch(t *testing.T) {
	create := &fakeCreateUC{}
	app := setupApp(t, &fakeListUC{}, create)

	resp := postJSON(t, app, "/lookalikes/bulk", httpadapter.BulkCreateLookalikesRequest{
		SourceAudienceIDs: []string{"111"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, create.bulkCalls)
}

func TestBulkCreateLookalikes_UnknownSource(t *testing.T) {
	list := &fakeListUC{
		LookupFn: func(ctx context.Context, adAccountID string, ids []string) ([]domain.SourceAudience, error) {
			return nil, fmt.Errorf("%w: 999", usecase.ErrUnknownSourceAudience)
		},
	}
	create := &fakeCreateUC{}
	app := setupApp(t, list, create)

	resp := postJSON(t, app, "/lookalikes/bulk", httpadapter.BulkCreateLookalikesRequest{
		SourceAudienceIDs: []string{"999"},
		Countries:         []string{"TW"},
		Ratios:            []float64{0.01},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, create.bulkCalls)
}

// ---- UI ----

func TestIndex_ListsAudiences(t *testing.T) {
	size := int64(1234567)
	list := &fakeListUC{
		ExecuteFn: func(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error) {
			return []domain.CustomAudience{
				{ID: "23850000000123456", Name: "Buyers <30d>", ApproximateCount: &size},
			}, nil
		},
	}
	app := setupApp(t, list, &fakeCreateUC{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(html)

	assert.Contains(t, page, "Buyers &lt;30d&gt;")
	assert.Contains(t, page, "1,234,567")
	assert.Contains(t, page, "...123456")
	assert.Contains(t, page, `value="TW,US,JP"`)
	assert.Contains(t, page, `<span id="planned-count">0</span> lookalikes planned`)
}

func TestIndex_FormatsLargeSizes(t *testing.T) {
	big := int64(1000)
	list := &fakeListUC{
		ExecuteFn: func(ctx context.Context, in usecase.ListAudiencesInput) ([]domain.CustomAudience, error) {
			return []domain.CustomAudience{
				{ID: "1", Name: "Small", ApproximateCount: &big},
				{ID: "2", Name: "Pending"},
			}, nil
		},
	}
	app := setupApp(t, list, &fakeCreateUC{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(html)

	assert.Contains(t, page, "<td>1,000</td>")
	assert.Contains(t, page, "<td>N/A</td>")
}

func TestSubmit_RunsBatchAndRendersSummary(t *testing.T) {
	list := &fakeListUC{}
	create := &fakeCreateUC{
		BulkFn: func(ctx context.Context, in usecase.BulkCreateInput) (usecase.BulkCreateResult, error) {
			return usecase.BulkCreateResult{
				RunID:   "run-9",
				Total:   4,
				Created: 2,
				Skipped: 1,
				Failed:  1,
				Results: []domain.LookalikeResult{
					{Name: "TW-1%-Source 1", Status: domain.StatusCreated, AudienceID: "900", Ratio: 0.01},
					{Name: "TW-2%-Source 1", Status: domain.StatusSkipped, Ratio: 0.02},
					{Name: "US-1%-Source 1", Status: domain.StatusCreated, AudienceID: "901", Ratio: 0.01},
					{Name: "US-2%-Source 1", Status: domain.StatusFailed, Reason: "boom", Ratio: 0.02},
				},
			}, nil
		},
	}
	app := setupApp(t, list, create)

	form := url.Values{}
	form.Set("ad_account_id", "42")
	form.Add("source_id", "1")
	form.Add("source_id", "2")
	form.Set("countries", "tw, us")
	form.Set("ratios", "0.01,0.02")
	form.Set("strategy", "skip")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"1", "2"}, list.lookupIDs)
	assert.Equal(t, []string{"TW", "US"}, create.lastBulk.Countries)
	assert.Equal(t, []float64{0.01, 0.02}, create.lastBulk.Ratios)
	assert.Equal(t, domain.ConflictSkip, create.lastBulk.Strategy)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(html)

	assert.Contains(t, page, "created 2, skipped 1, failed 1")
	assert.Contains(t, page, `<span id="planned-count">8</span> lookalikes planned`)
	assert.Contains(t, page, "boom")
	assert.Contains(t, page, "2%")
}

func TestSubmit_InvalidRatios(t *testing.T) {
	create := &fakeCreateUC{}
	app := setupApp(t, &fakeListUC{}, create)

	form := url.Values{}
	form.Set("ad_account_id", "42")
	form.Add("source_id", "1")
	form.Set("countries", "TW")
	form.Set("ratios", "abc")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, create.bulkCalls)
}
