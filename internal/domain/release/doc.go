// Package release defines the domain model of one packaged version:
// artifact names, checksums and image references, plus the naming scheme
// shared by every pipeline stage.
package release
