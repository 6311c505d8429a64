package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds release pipeline parameters shared by the releasekit binaries.
type Config struct {
	// PackageName is the Debian package and tarball base name.
	PackageName string `yaml:"package_name"`
	// ServiceName is the image repository name inside the registry.
	ServiceName string `yaml:"service_name"`
	// Registry is the container registry prefix for image tags.
	Registry string `yaml:"registry"`
	// VersionFile is the path of the file holding the release version.
	VersionFile string `yaml:"version_file"`
	// ResourceURL is where the snowboy resource archive is downloaded from.
	ResourceURL string `yaml:"resource_url"`
	// ResourceArchive is the local cache filename for the resource archive.
	ResourceArchive string `yaml:"resource_archive"`
	// ResourceChecksum is an optional base64 SHA-512 checksum of the archive.
	ResourceChecksum string `yaml:"resource_checksum,omitempty"`
	// ResourceMember is the archive member extracted into the bundled tree.
	ResourceMember string `yaml:"resource_member"`
	// DistDir is where PyInstaller places the bundled tree.
	DistDir string `yaml:"dist_dir"`
	// OutputDir is where finished artifacts (tarballs, .deb files) land.
	OutputDir string `yaml:"output_dir"`
	// SpecFile is the PyInstaller spec file driving the bundle.
	SpecFile string `yaml:"spec_file"`
	// Dockerfile is the container build file for prebuilt images.
	Dockerfile string `yaml:"dockerfile"`
	// Maintainer is substituted into the Debian control file.
	Maintainer string `yaml:"maintainer"`
	// Description is substituted into the Debian control file.
	Description string `yaml:"description"`
	// Timeout bounds the resource download.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "releasekit.yaml"

	// DefaultPackageName is the packaged project.
	DefaultPackageName = "rhasspy-wake-snowboy-hermes"

	// DefaultResourceURL is the snowboy source archive carrying common.res.
	DefaultResourceURL = "https://github.com/Kitt-AI/snowboy/archive/v1.3.0.tar.gz"

	// DefaultResourceMember is the archive member needed at runtime by the
	// bundled application.
	DefaultResourceMember = "snowboy-1.3.0/resources/common.res"

	// DefaultTimeout is the default duration for the resource download.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
// A missing file yields the built-in defaults rather than an error, because the
// pipeline is expected to run out of the box inside the project checkout.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err == nil {
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks formats of the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PackageName == "" {
		cfg.PackageName = DefaultPackageName
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = cfg.PackageName
	}

	if cfg.Registry == "" {
		cfg.Registry = "rhasspy"
	}

	if cfg.VersionFile == "" {
		cfg.VersionFile = "VERSION"
	}

	if cfg.ResourceURL == "" {
		cfg.ResourceURL = DefaultResourceURL
	}

	if cfg.ResourceArchive == "" {
		cfg.ResourceArchive = "download/snowboy-1.3.0.tar.gz"
	}

	if cfg.ResourceMember == "" {
		cfg.ResourceMember = DefaultResourceMember
	}

	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}

	if cfg.SpecFile == "" {
		cfg.SpecFile = "rhasspywake_snowboy_hermes.spec"
	}

	if cfg.Dockerfile == "" {
		cfg.Dockerfile = "Dockerfile.prebuilt"
	}

	if cfg.Maintainer == "" {
		cfg.Maintainer = "Michael Hansen <hansen.mike@gmail.com>"
	}

	if cfg.Description == "" {
		cfg.Description = "Hermes MQTT wake word service using snowboy"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if _, err := url.ParseRequestURI(cfg.ResourceURL); err != nil {
		return fmt.Errorf("invalid resource URL: %w", err)
	}

	return nil
}
