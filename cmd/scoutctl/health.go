package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClient(opts)

			var healthResp map[string]any
			if err := client.getJSON("/healthz", &healthResp); err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}

			var readyResp map[string]any
			if err := client.getJSON("/readyz", &readyResp); err != nil {
				// The server might still be starting.
				readyResp = map[string]any{"status": "unknown", "error": err.Error()}
			}

			out := cmd.OutOrStdout()
			if structured(opts.output) {
				return printOutput(out, opts.output, map[string]any{
					"health":    healthResp,
					"readiness": readyResp,
				})
			}

			status, _ := healthResp["status"].(string)
			uptime, _ := healthResp["uptime"].(string)
			ready, _ := readyResp["status"].(string)
			printTable(out, []string{"Check", "Status"}, [][]string{
				{"Liveness", status},
				{"Uptime", uptime},
				{"Readiness", ready},
			})
			return nil
		},
	}
}
