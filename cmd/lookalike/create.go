package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"

	"github.com/spf13/cobra"
)

type createOptions struct {
	account   string
	sources   string
	countries string
	ratios    string
	strategy  string
	dryRun    bool
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	co := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create lookalikes for every source x country x ratio",
		Example: "  lookalike create --sources 23850000000000001:Buyers,23850000000000002 " +
			"--countries TW,US,JP --ratios 0.01,0.02",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts, co)
		},
	}
	cmd.Flags().StringVar(&co.account, "account", "", "ad account id, without act_ (default FB_AD_ACCOUNT_ID)")
	cmd.Flags().StringVar(&co.sources, "sources", "", "comma separated source audiences as id or id:name")
	cmd.Flags().StringVar(&co.countries, "countries", "TW,US,JP", "comma separated country codes")
	cmd.Flags().StringVar(&co.ratios, "ratios", "0.01,0.02", "comma separated ratios")
	cmd.Flags().StringVar(&co.strategy, "strategy", string(domain.ConflictSkip), "name conflict handling: skip or strict")
	cmd.Flags().BoolVar(&co.dryRun, "dry-run", false, "print the planned names without calling the API")
	_ = cmd.MarkFlagRequired("sources")

	return cmd
}

func runCreate(cmd *cobra.Command, opts *rootOptions, co *createOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sources := parseSources(co.sources)
	countries := domain.ParseCountries(co.countries)
	ratios, err := domain.ParseRatios(co.ratios)
	if err != nil {
		return err
	}
	if !domain.ConflictStrategy(co.strategy).Valid() {
		return fmt.Errorf("unknown strategy %q", co.strategy)
	}

	if co.dryRun {
		return printPlan(out, sources, countries, ratios)
	}

	e, err := opts.env(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	account := e.account(co.account)

	// Fill in missing names from the account listing.
	var missing []string
	for _, s := range sources {
		if s.Name == "" {
			missing = append(missing, s.ID)
		}
	}
	if len(missing) > 0 {
		found, err := e.listUC.Lookup(ctx, account, missing)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(found))
		for _, f := range found {
			names[f.ID] = f.Name
		}
		for i := range sources {
			if sources[i].Name == "" {
				sources[i].Name = names[sources[i].ID]
			}
		}
	}

	res, err := e.create.BulkCreate(ctx, usecase.BulkCreateInput{
		AdAccountID: account,
		Sources:     sources,
		Countries:   countries,
		Ratios:      ratios,
		Strategy:    domain.ConflictStrategy(co.strategy),
	})
	if res.RunID != "" {
		if perr := printResults(out, res); perr != nil {
			return perr
		}
	}
	return err
}

// parseSources reads "id" or "id:name" items. Names may contain colons.
func parseSources(s string) []domain.SourceAudience {
	var out []domain.SourceAudience
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, name, _ := strings.Cut(part, ":")
		out = append(out, domain.SourceAudience{
			ID:   strings.TrimSpace(id),
			Name: strings.TrimSpace(name),
		})
	}
	return out
}

func printPlan(w io.Writer, sources []domain.SourceAudience, countries []string, ratios []float64) error {
	for _, s := range sources {
		name := s.Name
		if name == "" {
			name = s.ID
		}
		for _, c := range countries {
			for _, r := range ratios {
				fmt.Fprintln(w, domain.LookalikeName(c, r, name))
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d lookalikes planned\n", usecase.PlannedRows(len(sources), len(countries), len(ratios)))
	return err
}

func printResults(w io.Writer, res usecase.BulkCreateResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tNAME\tAUDIENCE ID / REASON")
	for _, r := range res.Results {
		detail := r.AudienceID
		if detail == "" {
			detail = r.Reason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Status, r.Name, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "run %s: created %d, skipped %d, failed %d (of %d)\n",
		res.RunID, res.Created, res.Skipped, res.Failed, res.Total)
	return err
}
