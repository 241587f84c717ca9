package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/app-starter/internal/config"
	"github.com/oshokin/app-starter/internal/logger"
	"github.com/oshokin/app-starter/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the level from the configuration file.
	logLevel string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:           "app-starter",
		Short:         "Create new projects from starter templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logLevel
			if !cmd.Flags().Changed("log-level") {
				cfg, err := config.LoadOrDefault(configPath)
				if err != nil {
					return err
				}

				level = cfg.LogLevel
			}

			parsed, ok := logger.ParseLogLevel(level)
			if !ok {
				return fmt.Errorf("unknown log level %q", level)
			}

			logger.SetLevel(parsed)

			return nil
		},
	}
)

// Execute runs the app-starter CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.ErrorKV(ctx, "Command failed", "error", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
