package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
)

// DefaultFilename is where the release manifest is written between stages.
const DefaultFilename = "release-manifest.yaml"

// Repository defines persistence operations for the release manifest.
type Repository interface {
	Load(ctx context.Context) (*domain.Release, error)
	Save(ctx context.Context, rel *domain.Release) error
	Record(ctx context.Context, version string, mutate func(*domain.Release)) error
}

// FileRepository persists the release manifest to a YAML file on disk.
// Stages append artifacts as they finish; the deploy step reads images back.
type FileRepository struct {
	// path is the filesystem location of the YAML manifest file.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

// ErrNotFound is returned when the manifest file does not exist yet.
var ErrNotFound = errors.New("release manifest not found")

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
// An empty path falls back to DefaultFilename.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultFilename
	}

	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the manifest from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var rel domain.Release
	if err = yaml.Unmarshal(contents, &rel); err != nil {
		return nil, fmt.Errorf("decode manifest file: %w", err)
	}

	return &rel, nil
}

// Save writes the manifest to disk, refreshing its timestamp.
func (r *FileRepository) Save(_ context.Context, rel *domain.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rel.CreatedAt = time.Now().UTC()

	data, err := yaml.Marshal(rel)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}

	return nil
}

// Record loads the manifest (or starts a fresh one for the version),
// applies mutate, and saves the result. Stages use it to append artifacts
// without repeating the load/save dance.
func (r *FileRepository) Record(ctx context.Context, version string, mutate func(*domain.Release)) error {
	rel, err := r.Load(ctx)
	if errors.Is(err, ErrNotFound) || (err == nil && rel.Version != version) {
		rel = domain.New(version)
	} else if err != nil {
		return err
	}

	mutate(rel)

	return r.Save(ctx, rel)
}
