// Package config defines release pipeline settings used by the binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Every field has a default tuned to the rhasspy-wake-snowboy-hermes
// checkout, so the pipeline runs without a settings file present.
package config
