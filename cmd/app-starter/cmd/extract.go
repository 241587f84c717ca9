package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/app-starter/internal/service/starter"
)

// extractCmd unpacks a local archive the same way start does.
var extractCmd = &cobra.Command{
	Use:     "extract <archive|-> <destination>",
	Short:   "Extract a compressed template archive, dropping its top-level folder",
	Example: "  app-starter extract starter.tar.gz ./my-app\n  curl -sL $URL | app-starter extract - ./my-app",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return starter.Extract(cmd.Context(), args[0], args[1])
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(extractCmd)
}
