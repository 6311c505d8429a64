// Package image builds the multi-architecture Docker images: for each target
// it stages the matching qemu emulation binary into the build context and
// invokes the container build with architecture-specific build arguments,
// tagging the result with version and friendly architecture name.
package image
