package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/service/image"
	"github.com/rhasspy/releasekit/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for building images.
	// With no arguments, every supported architecture is built.
	rootCmd = &cobra.Command{
		Use:   "release-image [architecture...]",
		Short: "Build multi-architecture Docker images",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &image.Options{
				ConfigPath:    configPath,
				Architectures: args,
			}

			return image.Run(ctx, options)
		},
	}
)

// Execute runs the release-image CLI and exits with non-zero status on error.
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
}
