package main

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/excelra/asset-scout/pkg/audit"
	"github.com/excelra/asset-scout/pkg/server"
)

type auditListResponse struct {
	Events        []audit.Event `json:"events"`
	NextPageToken string        `json:"nextPageToken"`
	TotalSize     int           `json:"totalSize"`
}

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		action     string
		outcome    string
		resourceID string
		pageSize   int
		pageToken  string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recorded catalog mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			set := func(k, v string) {
				if v != "" {
					q.Set(k, v)
				}
			}
			set("action", action)
			set("outcome", outcome)
			set("resourceId", resourceID)
			set("pageToken", pageToken)
			if pageSize > 0 {
				q.Set("pageSize", strconv.Itoa(pageSize))
			}

			path := server.BasePath + "/audit/events"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp auditListResponse
			if err := newClient(opts).getJSON(path, &resp); err != nil {
				return fmt.Errorf("failed to list audit events: %w", err)
			}

			out := cmd.OutOrStdout()
			if structured(opts.output) {
				return printOutput(out, opts.output, resp)
			}
			if len(resp.Events) == 0 {
				fmt.Fprintln(out, "No audit events found.")
				return nil
			}
			rows := make([][]string, 0, len(resp.Events))
			for _, e := range resp.Events {
				rows = append(rows, []string{
					e.CreatedAt.Format(time.RFC3339),
					e.Action,
					e.ResourceID,
					e.Outcome,
					strconv.Itoa(e.StatusCode),
					e.Method + " " + e.Path,
				})
			}
			printTable(out, []string{"Time", "Action", "Resource", "Outcome", "Status", "Request"}, rows)
			if resp.NextPageToken != "" {
				fmt.Fprintf(out, "\nNext page token: %s\n", resp.NextPageToken)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&action, "action", "", "Filter by action (create, update, delete, seed)")
	f.StringVar(&outcome, "outcome", "", "Filter by outcome (success, failure)")
	f.StringVar(&resourceID, "resource-id", "", "Filter by asset id")
	f.IntVar(&pageSize, "page-size", 0, "Page size")
	f.StringVar(&pageToken, "page-token", "", "Token of the page to fetch")
	return cmd
}
