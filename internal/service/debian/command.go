package debian

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rhasspy/releasekit/internal/arch"
	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/repository/manifest"
	"github.com/rhasspy/releasekit/internal/service/common"
)

// Options contains inputs for the Debian assembler entry point.
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

// assembler lays out the DEBIAN control structure and invokes dpkg-deb.
type assembler struct {
	cfg     *config.Config
	arch    arch.Architecture
	version string
	runner  common.Runner
	repo    manifest.Repository
}

// Run executes the Debian packaging workflow and is the public entry point.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-debian")

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

	a := &assembler{
		cfg:     cfg,
		arch:    target,
		version: opts.Version,
		runner:  runner,
		repo:    manifest.NewFileRepository(""),
	}

	if err = a.Run(ctx); err != nil {
		return fmt.Errorf("debian assembler failed: %w", err)
	}

	logger.Info(ctx, "Debian package assembled successfully")

	return nil
}

// Run stages the package layout, renders the control file, copies the bundled
// tree and builds the .deb.
func (a *assembler) Run(ctx context.Context) error {
	stage := filepath.Join("debian",
		fmt.Sprintf("%s_%s_%s", a.cfg.PackageName, a.version, a.arch.Friendly))

	logger.InfoKV(ctx, "Staging Debian package", "dir", stage)

	if err := a.writeControl(stage); err != nil {
		return err
	}

	if err := a.copyPayload(stage); err != nil {
		return err
	}

	output := filepath.Join(a.cfg.OutputDir,
		domain.DebName(a.cfg.PackageName, a.version, a.arch.Friendly))

	logger.InfoKV(ctx, "Building Debian package", "path", output)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	if err := a.runner.Run(ctx, "", "fakeroot", "dpkg-deb", "--build", stage, output); err != nil {
		return err
	}

	return a.recordArtifact(ctx, output)
}

// writeControl renders the control template into stage/DEBIAN/control.
func (a *assembler) writeControl(stage string) error {
	contents, err := renderControl(controlData{
		Package:      a.cfg.PackageName,
		Version:      a.version,
		Architecture: a.arch.Friendly,
		Maintainer:   a.cfg.Maintainer,
		Description:  a.cfg.Description,
	})
	if err != nil {
		return err
	}

	controlDir := filepath.Join(stage, "DEBIAN")
	if err = os.MkdirAll(controlDir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(controlDir, "control"), contents, 0o644)
}

// copyPayload copies the bundled tree into usr/lib/<package> inside the stage.
func (a *assembler) copyPayload(stage string) error {
	appDir := strings.TrimSuffix(filepath.Base(a.cfg.SpecFile), ".spec")
	source := filepath.Join(a.cfg.DistDir, appDir)
	destination := filepath.Join(stage, "usr", "lib", a.cfg.PackageName)

	return copyTree(source, destination)
}

// recordArtifact checksums the produced package and appends it to the manifest.
func (a *assembler) recordArtifact(ctx context.Context, output string) error {
	checksum, err := domain.FileChecksum(output)
	if err != nil {
		return err
	}

	return a.repo.Record(ctx, a.version, func(rel *domain.Release) {
		rel.AddArtifact(filepath.Base(output), checksum)
	})
}

// copyTree duplicates a directory tree preserving file modes.
func copyTree(source, destination string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relative, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		target := filepath.Join(destination, relative)

		info, err := entry.Info()
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return copyFile(path, target, info.Mode().Perm())
	})
}

// copyFile copies one regular file with the given permissions.
func copyFile(source, destination string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	input, err := os.Open(filepath.Clean(source))
	if err != nil {
		return err
	}

	defer func() {
		_ = input.Close()
	}()

	output, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	_, err = io.Copy(output, input)
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}

	return err
}
