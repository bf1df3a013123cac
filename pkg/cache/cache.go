// Package cache stores rendered flowgraph artifacts.
//
// Layout and rendering are the expensive stages of the pipeline; both are
// pure functions of their input bytes and options, so their results are
// cached under content-addressed keys produced by a [Keyer].
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey generates a key for a laid-out element list.
	LayoutKey(elementsHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout result.
type LayoutKeyOpts struct {
	Direction string  `json:"direction"`
	NodeSep   float64 `json:"node_sep"`
	RankSep   float64 `json:"rank_sep"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(elementsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", elementsHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dotHash, opts)
}
