// Package manifest implements persistence for the release manifest.
//
// The FileRepository stores and loads the manifest as YAML on disk and
// exposes a Repository interface that the pipeline stages depend on.
package manifest
