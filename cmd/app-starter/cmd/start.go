package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/app-starter/internal/service/starter"
)

var (
	// startOptions collects the flags of the start command.
	startOptions starter.Options

	// startCmd creates a project from a starter template.
	startCmd = &cobra.Command{
		Use:   "start <name> [template]",
		Short: "Create a new project from a starter template",
		Long: "Download a starter template, extract it into a new directory named after the project " +
			"(or --dir), patch package.json and write ionic.config.json.",
		Example: "  app-starter start myApp tabs\n  app-starter start myApp blank --type ionic1 --dir ~/src/my-app",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := startOptions
			options.ConfigPath = configPath
			options.Name = args[0]
			options.Template = "tabs"
			options.Out = cmd.OutOrStdout()

			if len(args) > 1 {
				options.Template = args[1]
			}

			return starter.Run(cmd.Context(), &options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	startCmd.Flags().StringVarP(&startOptions.Type, "type", "t", "", "starter template type (defaults to the catalog default)")
	startCmd.Flags().StringVarP(&startOptions.Destination, "dir", "d", "", "project directory (defaults to the project name)")
	startCmd.Flags().StringVar(&startOptions.AppID, "app-id", "", "cloud application id written to ionic.config.json")
	startCmd.Flags().BoolVarP(&startOptions.Force, "force", "f", false, "extract even if the directory contains other files")

	rootCmd.AddCommand(startCmd)
}
