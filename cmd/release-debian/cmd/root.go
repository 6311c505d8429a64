package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/service/debian"
	"github.com/rhasspy/releasekit/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for assembling the Debian package.
	rootCmd = &cobra.Command{
		Use:   "release-debian <architecture> <version>",
		Short: "Assemble the Debian package for one architecture",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &debian.Options{
				ConfigPath:   configPath,
				Architecture: args[0],
				Version:      args[1],
			}

			return debian.Run(ctx, options)
		},
	}
)

// Execute runs the release-debian CLI and exits with non-zero status on error.
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
