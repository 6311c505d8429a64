package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/service/pipeline"
	"github.com/rhasspy/releasekit/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel controls pipeline verbosity (debug, info, warn, error, fatal).
	logLevel string

	// withDeploy also pushes images after a successful build.
	withDeploy bool

	// rootCmd represents the base command running the whole release pipeline.
	rootCmd = &cobra.Command{
		Use:   "release-pipeline [architecture...]",
		Short: "Run the full release pipeline: fetch, bundle, debian, image",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &pipeline.Options{
				ConfigPath:    configPath,
				Architectures: args,
				Deploy:        withDeploy,
			}

			return pipeline.Run(ctx, options)
		},
	}
)

// Execute runs the release-pipeline CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error, fatal)")
	rootCmd.Flags().BoolVarP(&withDeploy, "deploy", "d", false, "push images to the registry after building")
}
