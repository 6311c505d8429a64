// Package fetcher downloads the snowboy resource archive if it is not
// already cached locally.
//
// Caching is by presence check only: when the destination file exists no
// network access happens at all. Downloads are installed atomically and,
// when a checksum is configured, verified before landing at the cache path.
// Network failure is fatal to the pipeline; there is no retry logic.
package fetcher
