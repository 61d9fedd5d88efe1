package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"lookalike-audience-service/internal/audiences/core/domain"
	"lookalike-audience-service/internal/audiences/core/usecase"

	"github.com/spf13/cobra"
)

func newAudiencesCmd(opts *rootOptions) *cobra.Command {
	var account, search string

	cmd := &cobra.Command{
		Use:   "audiences",
		Short: "List the custom audiences of an ad account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			audiences, err := e.listUC.Execute(cmd.Context(), usecase.ListAudiencesInput{
				AdAccountID: e.account(account),
				Search:      search,
			})
			if err != nil {
				return err
			}
			return printAudiences(cmd.OutOrStdout(), audiences)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "ad account id, without act_ (default FB_AD_ACCOUNT_ID)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")

	return cmd
}

func printAudiences(w io.Writer, audiences []domain.CustomAudience) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tSUBTYPE\tUPDATED")
	for _, a := range audiences {
		size := "N/A"
		if a.ApproximateCount != nil {
			size = fmt.Sprint(*a.ApproximateCount)
		}
		updated := ""
		if !a.UpdatedAt.IsZero() {
			updated = a.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, size, a.Subtype, updated)
	}
	return tw.Flush()
}
