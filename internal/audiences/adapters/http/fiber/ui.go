package fiber

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultCountries = "TW,US,JP"
	defaultRatios    = "0.01,0.02"
)

var sizePrinter = message.NewPrinter(language.English)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": domain.RatioPercent,
}).ParseFS(templatesFS, "templates/index.html"))

type audienceRow struct {
	ID       string
	Name     string
	Size     string
	Subtype  string
	Updated  string
	IDSuffix string
	Checked  bool
}

type pageData struct {
	AdAccountID string
	Search      string
	Countries   string
	Ratios      string
	Strategy    string
	Planned     int

	Audiences []audienceRow
	Error     string
	Result    *BulkCreateLookalikesResponse
}

// Index renders the batch form. Audiences are listed once an ad account is
// known, either from the query or the configured default.
func (h *AudienceHandler) Index(c *fiber.Ctx) error {
	page := pageData{
		AdAccountID: h.account(c.Query("ad_account_id")),
		Search:      c.Query("search"),
		Countries:   defaultCountries,
		Ratios:      defaultRatios,
		Strategy:    string(domain.ConflictSkip),
	}

	status := http.StatusOK
	if page.AdAccountID != "" {
		if err := h.loadAudiences(c, &page, nil); err != nil {
			status, _ = classify(err)
			page.Error = err.Error()
		}
	}
	page.Planned = plannedRows(0, page)

	return render(c, status, page)
}

// Submit runs the batch posted by the form and renders per-row results.
func (h *AudienceHandler) Submit(c *fiber.Ctx) error {
	page := pageData{
		AdAccountID: h.account(c.FormValue("ad_account_id")),
		Search:      c.FormValue("search"),
		Countries:   c.FormValue("countries"),
		Ratios:      c.FormValue("ratios"),
		Strategy:    c.FormValue("strategy", string(domain.ConflictSkip)),
	}

	var sourceIDs []string
	for _, v := range c.Request().PostArgs().PeekMulti("source_id") {
		sourceIDs = append(sourceIDs, string(v))
	}
	page.Planned = plannedRows(len(sourceIDs), page)

	status := http.StatusOK
	res, err := h.submit(c, page, sourceIDs)
	if err != nil {
		status, _ = classify(err)
		page.Error = err.Error()
	}
	if res.RunID != "" {
		resp := toBulkResponse(res)
		page.Result = &resp
	}

	// Reload after the batch so new lookalikes show up in the list.
	if page.AdAccountID != "" {
		if err := h.loadAudiences(c, &page, sourceIDs); err != nil && page.Error == "" {
			page.Error = err.Error()
		}
	}

	return render(c, status, page)
}

func (h *AudienceHandler) submit(c *fiber.Ctx, page pageData, sourceIDs []string) (usecase.BulkCreateResult, error) {
	ratios, err := domain.ParseRatios(page.Ratios)
	if err != nil {
		return usecase.BulkCreateResult{}, fmt.Errorf("%w: %s", usecase.ErrInvalidLookalikeRequest, err)
	}

	return h.runBatch(c.UserContext(), page.AdAccountID, sourceIDs, domain.ParseCountries(page.Countries), ratios, page.Strategy)
}

// plannedRows counts the rows the form would create. Ratios that do not parse
// count as zero until fixed.
func plannedRows(sources int, page pageData) int {
	ratios, err := domain.ParseRatios(page.Ratios)
	if err != nil {
		return 0
	}
	return usecase.PlannedRows(sources, len(domain.ParseCountries(page.Countries)), len(ratios))
}

func (h *AudienceHandler) loadAudiences(c *fiber.Ctx, page *pageData, selected []string) error {
	audiences, err := h.listUC.Execute(c.UserContext(), usecase.ListAudiencesInput{
		AdAccountID: page.AdAccountID,
		Search:      page.Search,
	})
	if err != nil {
		return err
	}

	checked := make(map[string]bool, len(selected))
	for _, id := range selected {
		checked[id] = true
	}

	page.Audiences = make([]audienceRow, 0, len(audiences))
	for _, a := range audiences {
		page.Audiences = append(page.Audiences, newAudienceRow(a, checked[a.ID]))
	}
	return nil
}

func newAudienceRow(a domain.CustomAudience, checked bool) audienceRow {
	row := audienceRow{
		ID:       a.ID,
		Name:     a.Name,
		Size:     "N/A",
		Subtype:  a.Subtype,
		IDSuffix: a.ID,
		Checked:  checked,
	}
	if a.ApproximateCount != nil {
		row.Size = sizePrinter.Sprintf("%d", *a.ApproximateCount)
	}
	if !a.UpdatedAt.IsZero() {
		row.Updated = a.UpdatedAt.Format("2006-01-02 15:04")
	}
	if len(a.ID) > 6 {
		row.IDSuffix = "..." + a.ID[len(a.ID)-6:]
	}
	return row
}

func render(c *fiber.Ctx, status int, page pageData) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
