package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/service/deploy"
	"github.com/rhasspy/releasekit/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for pushing built images.
	// Credentials come from DOCKER_USERNAME and DOCKER_PASSWORD.
	rootCmd = &cobra.Command{
		Use:   "release-deploy [architecture...]",
		Short: "Push built images to the container registry",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &deploy.Options{
				ConfigPath:    configPath,
				Architectures: args,
			}

			return deploy.Run(ctx, options)
		},
	}
)

// Execute runs the release-deploy CLI and exits with non-zero status on error.
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
