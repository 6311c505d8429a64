package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rhasspy/releasekit/internal/config"
	"github.com/rhasspy/releasekit/internal/repository/manifest"
	"github.com/rhasspy/releasekit/internal/service/pipeline"
)

// fakeRunner simulates the external build tools the pipeline shells out to.
type fakeRunner struct {
	commands [][]string
}

func (f *fakeRunner) Run(_ context.Context, _, name string, args ...string) error {
	f.commands = append(f.commands, append([]string{name}, args...))

	switch name {
	case "pyinstaller":
		// Produce the frozen tree PyInstaller would leave behind.
		tree := filepath.Join("dist", "rhasspywake_snowboy_hermes")
		if err := os.MkdirAll(tree, 0o755); err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(tree, "rhasspywake_snowboy_hermes"), []byte("elf"), 0o755)
	case "fakeroot":
		// dpkg-deb writes the package at the destination argument.
		return os.WriteFile(args[len(args)-1], []byte("deb"), 0o644)
	default:
		return nil
	}
}

// toolNames flattens the recorded command names for ordering assertions.
func (f *fakeRunner) toolNames() []string {
	names := make([]string, 0, len(f.commands))
	for _, command := range f.commands {
		names = append(names, command[0])
	}

	return names
}

// TestPipeline_EndToEnd runs the full pipeline against a fake tool runner and
// an httptest resource server, then checks artifacts, naming and ordering.
func TestPipeline_EndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())

	archive := buildResourceArchive(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	require.NoError(t, os.WriteFile("VERSION", []byte("1.0.0\n"), 0o600))
	require.NoError(t, config.Save(config.DefaultConfigFilename, &config.Config{
		ResourceURL: server.URL,
	}))

	runner := &fakeRunner{}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := pipeline.Run(ctx, &pipeline.Options{
		Architectures: []string{"amd64"},
		Runner:        runner,
	})
	require.NoError(t, err)

	// Stage ordering: freeze, package, build.
	require.Equal(t, []string{"pyinstaller", "fakeroot", "docker"}, runner.toolNames())

	// Artifacts named by package, version and friendly architecture.
	for _, artifact := range []string{
		"rhasspy-wake-snowboy-hermes_1.0.0_amd64.tar.gz",
		"rhasspy-wake-snowboy-hermes_1.0.0_amd64.deb",
	} {
		_, err = os.Stat(filepath.Join("dist", artifact))
		require.NoError(t, err, artifact)
	}

	// The resource archive is cached under the configured path.
	_, err = os.Stat(filepath.Join("download", "snowboy-1.3.0.tar.gz"))
	require.NoError(t, err)

	// Manifest holds both artifacts and the image reference.
	rel, err := manifest.NewFileRepository("").Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", rel.Version)
	require.Len(t, rel.Artifacts, 2)
	require.Len(t, rel.Images, 1)
	require.Equal(t, "rhasspy/rhasspy-wake-snowboy-hermes:1.0.0-amd64", rel.Images[0])

	// The build marker is gone after a successful run.
	_, err = os.Stat("releasekit-build-marker.bin")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestPipeline_FetchIsCached re-runs the fetch stage and observes no second download.
func TestPipeline_FetchIsCached(t *testing.T) {
	t.Chdir(t.TempDir())

	archive := buildResourceArchive(t)

	var hits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	require.NoError(t, os.WriteFile("VERSION", []byte("1.0.0\n"), 0o600))
	require.NoError(t, config.Save(config.DefaultConfigFilename, &config.Config{
		ResourceURL: server.URL,
	}))

	runner := &fakeRunner{}
	ctx := context.Background()

	for range 2 {
		err := pipeline.Run(ctx, &pipeline.Options{
			Architectures: []string{"amd64"},
			Runner:        runner,
		})
		require.NoError(t, err)
	}

	require.Equal(t, 1, hits)
}

// TestPipeline_UnknownArchitecture aborts before fetching or running tools.
func TestPipeline_UnknownArchitecture(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("VERSION", []byte("1.0.0\n"), 0o600))

	runner := &fakeRunner{}

	err := pipeline.Run(context.Background(), &pipeline.Options{
		Architectures: []string{"vax"},
		Runner:        runner,
	})
	require.Error(t, err)
	require.Empty(t, runner.commands)
}

// TestPipeline_MissingVersion aborts before taking the lock or fetching.
func TestPipeline_MissingVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	runner := &fakeRunner{}

	err := pipeline.Run(context.Background(), &pipeline.Options{
		Architectures: []string{"amd64"},
		Runner:        runner,
	})
	require.Error(t, err)
	require.Empty(t, runner.commands)

	_, err = os.Stat("releasekit-build-marker.bin")
	require.ErrorIs(t, err, os.ErrNotExist)
}
