package arch

import (
	"errors"
	"fmt"
	"runtime"
)

// Architecture describes one supported target platform.
type Architecture struct {
	// Build is the Docker build-platform token passed as a build argument.
	Build string
	// Friendly is the human-readable name used in artifact filenames and image tags.
	Friendly string
	// Qemu is the emulation binary required to build the image on an amd64
	// host, empty when no emulation is needed.
	Qemu string
}

// ErrUnknown is returned for tokens outside the supported table.
var ErrUnknown = errors.New("unknown architecture")

// table is the closed set of supported build-architecture tokens.
// The mapping is total on its domain; unknown tokens are the only error.
//
//nolint:gochecknoglobals // Fixed lookup table shared by all stages.
var table = map[string]Architecture{
	"amd64":   {Build: "amd64", Friendly: "amd64"},
	"arm32v7": {Build: "arm32v7", Friendly: "armhf", Qemu: "qemu-arm-static"},
	"arm64v8": {Build: "arm64v8", Friendly: "arm64", Qemu: "qemu-aarch64-static"},
	"arm32v6": {Build: "arm32v6", Friendly: "armv6", Qemu: "qemu-arm-static"},
}

// defaultOrder keeps deterministic build order for the default list.
//
//nolint:gochecknoglobals // Fixed lookup table shared by all stages.
var defaultOrder = []string{"amd64", "arm32v7", "arm64v8", "arm32v6"}

// Map returns the Architecture for a build token
// or ErrUnknown when the token is not in the table.
func Map(token string) (Architecture, error) {
	a, ok := table[token]
	if !ok {
		return Architecture{}, fmt.Errorf("%w: %s", ErrUnknown, token)
	}

	return a, nil
}

// Default returns the full supported architecture list in build order.
func Default() []Architecture {
	list := make([]Architecture, 0, len(defaultOrder))
	for _, token := range defaultOrder {
		list = append(list, table[token])
	}

	return list
}

// Host detects the build architecture of the current machine.
func Host() (Architecture, error) {
	switch runtime.GOARCH {
	case "amd64":
		return table["amd64"], nil
	case "arm64":
		return table["arm64v8"], nil
	case "arm":
		return table["arm32v7"], nil
	default:
		return Architecture{}, fmt.Errorf("%w: GOARCH %s", ErrUnknown, runtime.GOARCH)
	}
}

// Resolve maps a list of build tokens, falling back to the default list
// when no tokens are given. It fails on the first unknown token.
func Resolve(tokens []string) ([]Architecture, error) {
	if len(tokens) == 0 {
		return Default(), nil
	}

	list := make([]Architecture, 0, len(tokens))

	for _, token := range tokens {
		a, err := Map(token)
		if err != nil {
			return nil, err
		}

		list = append(list, a)
	}

	return list, nil
}
