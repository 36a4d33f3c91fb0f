package main

import (
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	serverURL string
	output    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "scoutctl",
		Short: "CLI for the internal asset catalog",
		Long: `scoutctl browses and edits the asset catalog served by scout-server.

Records are listed in browse order (readiness, engineering, maintenance
score, all descending) and can be narrowed with the same filters the
server understands.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080", "Asset catalog server URL")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table, json, yaml")

	cmd.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newVocabularyCmd(opts),
		newSeedCmd(opts),
		newAuditCmd(opts),
		newHealthCmd(opts),
	)
	return cmd
}
