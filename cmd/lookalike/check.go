package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"lookalike-audience-service/internal/server"

	"github.com/spf13/cobra"
)

// newCheckCmd loads config and wires the full server without listening, then
// calls /healthz in-process. CI runs it on every push.
func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify config and server wiring without serving traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			app, err := server.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("healthz returned %d", resp.StatusCode)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}
