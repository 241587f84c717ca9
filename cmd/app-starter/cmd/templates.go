package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/app-starter/internal/service/starter"
)

// templatesCmd lists the starter catalog.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available starter templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return starter.ListTemplates(configPath, cmd.OutOrStdout())
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(templatesCmd)
}
