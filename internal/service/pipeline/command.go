package pipeline

import (
	"context"

	"github.com/rhasspy/releasekit/internal/arch"
	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/service/bundler"
	"github.com/rhasspy/releasekit/internal/service/common"
	"github.com/rhasspy/releasekit/internal/service/debian"
	"github.com/rhasspy/releasekit/internal/service/deploy"
	"github.com/rhasspy/releasekit/internal/service/fetcher"
	"github.com/rhasspy/releasekit/internal/service/image"
	"github.com/rhasspy/releasekit/internal/version"
)

// Options contains inputs for the pipeline entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Architectures are build tokens; empty means the full default list.
	Architectures []string
	// Deploy also pushes images after a successful build.
	Deploy bool
	// Runner overrides the external-tool runner, used by tests.
	Runner common.Runner
	// QemuDir overrides the emulation binary location, used by tests.
	QemuDir string
	// Source overrides where deployed images are read from, used by tests.
	Source deploy.ImageSource
}

// Run executes the whole release pipeline sequentially: fetch, bundle,
// debian, image and optionally deploy. The first failing stage aborts the
// rest; no stage runs concurrently with another.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-pipeline")

	// Configuration errors surface before any stage runs.
	targets, err := arch.Resolve(opts.Architectures)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	release, err := version.Resolve(cfg.VersionFile)
	if err != nil {
		return err
	}

	// One build per working directory: both bundling and packaging overwrite
	// the same intermediate directories.
	lock := common.NewBuildLock("")
	if err = lock.Acquire(ctx); err != nil {
		return err
	}

	defer lock.Release(ctx)

	logger.InfoKV(ctx, "Starting release pipeline",
		"version", release,
		"architectures", len(targets))

	if err = run(ctx, opts, targets, release); err != nil {
		logger.ErrorKV(ctx, "Pipeline failed", "error", err)
		return err
	}

	logger.Info(ctx, "Pipeline completed successfully")

	return nil
}

// run executes the stages in order.
func run(ctx context.Context, opts *Options, targets []arch.Architecture, release string) error {
	if err := fetcher.Run(ctx, &fetcher.Options{ConfigPath: opts.ConfigPath}); err != nil {
		return err
	}

	for _, target := range targets {
		bundleOpts := &bundler.Options{
			ConfigPath:   opts.ConfigPath,
			Architecture: target.Build,
			Version:      release,
			Runner:       opts.Runner,
		}
		if err := bundler.Run(ctx, bundleOpts); err != nil {
			return err
		}

		debianOpts := &debian.Options{
			ConfigPath:   opts.ConfigPath,
			Architecture: target.Build,
			Version:      release,
			Runner:       opts.Runner,
		}
		if err := debian.Run(ctx, debianOpts); err != nil {
			return err
		}
	}

	imageOpts := &image.Options{
		ConfigPath:    opts.ConfigPath,
		Architectures: opts.Architectures,
		QemuDir:       opts.QemuDir,
		Runner:        opts.Runner,
	}
	if err := image.Run(ctx, imageOpts); err != nil {
		return err
	}

	if !opts.Deploy {
		return nil
	}

	deployOpts := &deploy.Options{
		ConfigPath:    opts.ConfigPath,
		Architectures: opts.Architectures,
		Source:        opts.Source,
	}
	if err := deploy.Run(ctx, deployOpts); err != nil {
		return err
	}

	return nil
}
