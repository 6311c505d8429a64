// Package pipeline is the top-level task runner: it resolves version and
// architectures once, takes the working-directory build lock, and invokes
// the fetch, bundle, debian, image and deploy stages sequentially with
// fail-fast semantics.
package pipeline
