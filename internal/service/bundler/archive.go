package bundler

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var errMemberNotFound = errors.New("member not found in archive")

// extractMember copies a single named member of a gzipped tar archive to the
// destination path, creating parent directories as needed.
func extractMember(archivePath, member, destination string) error {
	archive, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("open resource archive: %w", err)
	}

	defer func() {
		_ = archive.Close()
	}()

	gzReader, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("read resource archive: %w", err)
	}

	defer func() {
		_ = gzReader.Close()
	}()

	tarReader := tar.NewReader(gzReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", member, errMemberNotFound)
		}

		if err != nil {
			return fmt.Errorf("read archive entry: %w", err)
		}

		if header.Name != member {
			continue
		}

		return writeMember(tarReader, destination)
	}
}

// writeMember streams the current archive entry to the destination file.
func writeMember(tarReader *tar.Reader, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	output, err := os.Create(filepath.Clean(destination))
	if err != nil {
		return err
	}

	_, err = io.Copy(output, tarReader) //nolint:gosec // Archive origin is a pinned release URL.
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}

	return err
}

// compressTree archives root/base into a gzipped tarball at output.
// Entry names are relative to root, so the archive unpacks into a single
// directory named after base.
func compressTree(root, base, output string) (err error) {
	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	outputFile, err := os.Create(filepath.Clean(output))
	if err != nil {
		return err
	}

	gzWriter := gzip.NewWriter(outputFile)
	tarWriter := tar.NewWriter(gzWriter)

	defer func() {
		if cErr := tarWriter.Close(); cErr != nil && err == nil {
			err = cErr
		}

		if cErr := gzWriter.Close(); cErr != nil && err == nil {
			err = cErr
		}

		if cErr := outputFile.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	tree := filepath.Join(root, base)

	return filepath.WalkDir(tree, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		return addEntry(tarWriter, root, path, entry)
	})
}

// addEntry appends one file or directory to the tar stream.
func addEntry(tarWriter *tar.Writer, root, path string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return err
	}

	// Symlinks and other irregular files do not occur in PyInstaller output
	// that we care about; skip anything that is not a file or directory.
	if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}

	name, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}

	header.Name = filepath.ToSlash(name)
	if info.IsDir() {
		header.Name += "/"
	}

	if err = tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("write tar header: %w", err)
	}

	if info.IsDir() {
		return nil
	}

	contents, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, contents)
	if closeErr := contents.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("write tar body: %w", err)
	}

	return nil
}
