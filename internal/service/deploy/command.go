package deploy

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/daemon"

	"github.com/rhasspy/releasekit/internal/arch"
	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
	"github.com/rhasspy/releasekit/internal/logger"
	"github.com/rhasspy/releasekit/internal/version"
)

// Registry credentials come from the environment, never from argv.
const (
	UsernameEnv = "DOCKER_USERNAME"
	PasswordEnv = "DOCKER_PASSWORD" //nolint:gosec // Environment variable name, not a credential.
)

// ImageSource resolves a built image by reference, by default from the local
// Docker daemon. Tests substitute synthetic images.
type ImageSource func(ctx context.Context, ref string) (v1.Image, error)

// Options contains inputs for the deploy entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Architectures are build tokens; empty means the full default list.
	Architectures []string
	// Source overrides where images are read from, used by tests.
	Source ImageSource
	// CraneOptions are appended to the push options, used by tests.
	CraneOptions []crane.Option
}

// pusher pushes version-and-architecture tagged images to the registry.
type pusher struct {
	cfg       *config.Config
	targets   []arch.Architecture
	release   string
	source    ImageSource
	craneOpts []crane.Option
}

// Run executes the deploy workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-deploy")

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

	source := opts.Source
	if source == nil {
		source = daemonImage
	}

	p := &pusher{
		cfg:       cfg,
		targets:   targets,
		release:   release,
		source:    source,
		craneOpts: append([]crane.Option{authOption(ctx)}, opts.CraneOptions...),
	}

	if err = p.Run(ctx); err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	logger.Info(ctx, "Deploy completed successfully")

	return nil
}

// Run pushes every target sequentially; the first failure aborts the rest.
func (p *pusher) Run(ctx context.Context) error {
	for _, target := range p.targets {
		ref := domain.ImageRef(p.cfg.Registry, p.cfg.ServiceName, p.release, target.Friendly)

		logger.InfoKV(ctx, "Pushing image", "reference", ref)

		img, err := p.source(ctx, ref)
		if err != nil {
			return fmt.Errorf("resolve image %s: %w", ref, err)
		}

		opts := append([]crane.Option{crane.WithContext(ctx)}, p.craneOpts...)
		if err = crane.Push(img, ref, opts...); err != nil {
			return fmt.Errorf("push %s: %w", ref, err)
		}
	}

	return nil
}

// daemonImage reads a built image from the local Docker daemon.
func daemonImage(ctx context.Context, ref string) (v1.Image, error) {
	reference, err := name.ParseReference(ref)
	if err != nil {
		return nil, err
	}

	return daemon.Image(reference, daemon.WithContext(ctx))
}

// authOption picks basic auth from the environment when both variables are
// set, and the default keychain otherwise.
func authOption(ctx context.Context) crane.Option {
	username := os.Getenv(UsernameEnv)
	password := os.Getenv(PasswordEnv)

	if username != "" && password != "" {
		logger.InfoKV(ctx, "Authenticating to registry", "username", username)

		return crane.WithAuth(&authn.Basic{
			Username: username,
			Password: password,
		})
	}

	logger.Info(ctx, "No registry credentials in environment, using default keychain")

	return crane.WithAuthFromKeychain(authn.DefaultKeychain)
}
