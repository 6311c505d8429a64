package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultVersionFilename is the file holding the version of the packaged release.
const DefaultVersionFilename = "VERSION"

// errEmptyVersion is returned when the version file exists but holds no content.
var errEmptyVersion = errors.New("version file is empty")

// Resolve reads the release version from the provided file.
// The content is treated as an opaque token: trimmed, never parsed.
// An empty path falls back to DefaultVersionFilename.
func Resolve(path string) (string, error) {
	if path == "" {
		path = DefaultVersionFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}

	release := strings.TrimSpace(string(contents))
	if release == "" {
		return "", fmt.Errorf("%s: %w", path, errEmptyVersion)
	}

	return release, nil
}
