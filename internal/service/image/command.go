package image

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rhasspy/releasekit/internal/arch"
	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/repository/manifest"
	"github.com/rhasspy/releasekit/internal/service/common"
	"github.com/rhasspy/releasekit/internal/version"
)

// DefaultQemuDir is where the emulation-binary provider package installs
// the qemu static binaries.
const DefaultQemuDir = "/usr/bin"

// Options contains inputs for the image builder entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Architectures are build tokens; empty means the full default list.
	Architectures []string
	// QemuDir overrides the emulation binary location, used by tests.
	QemuDir string
	// Runner overrides the external-tool runner, used by tests.
	Runner common.Runner
}

// builder drives one `docker build` per target architecture.
type builder struct {
	cfg     *config.Config
	targets []arch.Architecture
	release string
	qemuDir string
	runner  common.Runner
	repo    manifest.Repository
}

// Run executes the multi-architecture build and is the public entry point.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-image")

	// Unknown tokens abort here, before any build tool is invoked.
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

	runner := opts.Runner
	if runner == nil {
		runner = common.NewExecRunner()
	}

	qemuDir := opts.QemuDir
	if qemuDir == "" {
		qemuDir = DefaultQemuDir
	}

	b := &builder{
		cfg:     cfg,
		targets: targets,
		release: release,
		qemuDir: qemuDir,
		runner:  runner,
		repo:    manifest.NewFileRepository(""),
	}

	if err = b.Run(ctx); err != nil {
		return fmt.Errorf("image builder failed: %w", err)
	}

	logger.Info(ctx, "Image builder completed successfully")

	return nil
}

// Run builds every target sequentially; the first failure aborts the rest.
func (b *builder) Run(ctx context.Context) error {
	for _, target := range b.targets {
		if err := b.buildOne(ctx, target); err != nil {
			return err
		}
	}

	return nil
}

// buildOne stages the emulation binary and invokes the container build for
// one architecture, then records the resulting image reference.
func (b *builder) buildOne(ctx context.Context, target arch.Architecture) error {
	ref := domain.ImageRef(b.cfg.Registry, b.cfg.ServiceName, b.release, target.Friendly)

	logger.InfoKV(ctx, "Building image",
		"reference", ref,
		"build_arch", target.Build)

	if err := b.stageQemu(target); err != nil {
		return err
	}

	err := b.runner.Run(ctx, "", "docker", "build", ".",
		"-f", b.cfg.Dockerfile,
		"--build-arg", "BUILD_ARCH="+target.Build,
		"--build-arg", "FRIENDLY_ARCH="+target.Friendly,
		"-t", ref)
	if err != nil {
		return err
	}

	return b.repo.Record(ctx, b.release, func(rel *domain.Release) {
		rel.AddImage(ref)
	})
}

// stageQemu copies the emulation binary into the build context so the
// Dockerfile can ADD it for foreign-architecture builds.
func (b *builder) stageQemu(target arch.Architecture) error {
	if target.Qemu == "" {
		return nil
	}

	source := filepath.Join(b.qemuDir, target.Qemu)

	contents, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("read emulation binary: %w", err)
	}

	return os.WriteFile(target.Qemu, contents, 0o755)
}
