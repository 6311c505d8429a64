package bundler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rhasspy/releasekit/internal/arch"
	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/repository/manifest"
	"github.com/rhasspy/releasekit/internal/service/common"
)

// Options contains inputs for the bundler entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Architecture is the build-architecture token (mandatory).
	Architecture string
	// Version is the release version token (mandatory).
	Version string
	// Runner overrides the external-tool runner, used by tests.
	Runner common.Runner
}

// bundler freezes the Python application and archives the resulting tree.
type bundler struct {
	cfg     *config.Config
	arch    arch.Architecture
	version string
	runner  common.Runner
	repo    manifest.Repository
}

// Run executes the bundling workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-bundle")

	// Unknown tokens abort here, before any build tool is invoked.
	target, err := arch.Map(opts.Architecture)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	runner := opts.Runner
	if runner == nil {
		runner = common.NewExecRunner()
	}

	b := &bundler{
		cfg:     cfg,
		arch:    target,
		version: opts.Version,
		runner:  runner,
		repo:    manifest.NewFileRepository(""),
	}

	if err = b.Run(ctx); err != nil {
		return fmt.Errorf("bundler failed: %w", err)
	}

	logger.Info(ctx, "Bundler completed successfully")

	return nil
}

// Run freezes the application, injects the snowboy resource and archives the tree.
func (b *bundler) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Freezing application",
		"spec", b.cfg.SpecFile,
		"architecture", b.arch.Friendly)

	if err := b.freeze(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Extracting resource into bundle", "member", b.cfg.ResourceMember)

	if err := b.injectResource(); err != nil {
		return err
	}

	output := filepath.Join(b.cfg.OutputDir,
		domain.TarballName(b.cfg.PackageName, b.version, b.arch.Friendly))

	logger.InfoKV(ctx, "Compressing bundle", "path", output)

	if err := compressTree(b.cfg.DistDir, b.appDir(), output); err != nil {
		return err
	}

	return b.recordArtifact(ctx, output)
}

// appDir is the directory name PyInstaller produces under the dist directory,
// derived from the spec file name.
func (b *bundler) appDir() string {
	return strings.TrimSuffix(filepath.Base(b.cfg.SpecFile), ".spec")
}

// freeze invokes PyInstaller to bundle the application and its dependencies
// into a self-contained directory tree.
func (b *bundler) freeze(ctx context.Context) error {
	return b.runner.Run(ctx, "", "pyinstaller",
		"-y",
		"--workpath", filepath.Join(b.cfg.DistDir, "build"),
		"--distpath", b.cfg.DistDir,
		b.cfg.SpecFile)
}

// injectResource extracts the configured member of the cached resource
// archive into the bundled tree, where the application expects it at runtime.
func (b *bundler) injectResource() error {
	destination := filepath.Join(
		b.cfg.DistDir, b.appDir(),
		"snowboy", "resources",
		filepath.Base(b.cfg.ResourceMember))

	return extractMember(b.cfg.ResourceArchive, b.cfg.ResourceMember, destination)
}

// recordArtifact checksums the produced tarball and appends it to the manifest.
func (b *bundler) recordArtifact(ctx context.Context, output string) error {
	checksum, err := domain.FileChecksum(output)
	if err != nil {
		return err
	}

	return b.repo.Record(ctx, b.version, func(rel *domain.Release) {
		rel.AddArtifact(filepath.Base(output), checksum)
	})
}
