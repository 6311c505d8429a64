// Package deploy pushes the built images to the container registry.
//
// Images are read from the local Docker daemon and pushed with
// go-containerregistry; credentials come from the DOCKER_USERNAME and
// DOCKER_PASSWORD environment variables, falling back to the default
// keychain when unset.
package deploy
