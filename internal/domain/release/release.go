package release

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

// ChecksumFunction is used to fingerprint release artifacts.
const ChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// Artifact is one produced file of a release, identified by name and checksum.
type Artifact struct {
	// Name is the artifact filename, without directories.
	Name string `yaml:"name"`
	// Checksum is the base64-encoded SHA-512 of the file contents.
	Checksum string `yaml:"checksum"`
}

// Release describes one packaged version: its artifacts and image references.
type Release struct {
	// Version is the packaged project version, an opaque token.
	Version string `yaml:"version"`
	// CreatedAt records when the release manifest was last written.
	CreatedAt time.Time `yaml:"created_at"`
	// Artifacts lists tarballs and Debian packages produced by the pipeline.
	Artifacts []Artifact `yaml:"artifacts"`
	// Images lists fully qualified image references built for this release.
	Images []string `yaml:"images"`
}

// New produces a Release for the given version.
func New(version string) *Release {
	return &Release{
		Version:   version,
		CreatedAt: time.Now().UTC(),
	}
}

// AddArtifact records an artifact, replacing a previous entry with the same name.
func (r *Release) AddArtifact(name, checksum string) {
	for i, a := range r.Artifacts {
		if a.Name == name {
			r.Artifacts[i].Checksum = checksum
			return
		}
	}

	r.Artifacts = append(r.Artifacts, Artifact{Name: name, Checksum: checksum})
}

// AddImage records an image reference once.
func (r *Release) AddImage(ref string) {
	for _, existing := range r.Images {
		if existing == ref {
			return
		}
	}

	r.Images = append(r.Images, ref)
}

// TarballName renders `<package>_<version>_<architecture>.tar.gz`.
func TarballName(packageName, version, friendlyArch string) string {
	return fmt.Sprintf("%s_%s_%s.tar.gz", packageName, version, friendlyArch)
}

// DebName renders `<package>_<version>_<architecture>.deb`.
func DebName(packageName, version, friendlyArch string) string {
	return fmt.Sprintf("%s_%s_%s.deb", packageName, version, friendlyArch)
}

// ImageRef renders `<registry>/<service>:<version>-<friendly_arch>`.
func ImageRef(registry, service, version, friendlyArch string) string {
	return fmt.Sprintf("%s/%s:%s-%s", registry, service, version, friendlyArch)
}

// FileChecksum returns the base64-encoded checksum of a file
// using ChecksumFunction.
func FileChecksum(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	return Checksum(contents)
}

// Checksum returns the base64-encoded checksum of raw data.
func Checksum(data []byte) (string, error) {
	if !ChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}
