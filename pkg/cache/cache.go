// Package cache provides byte-level caching for downloaded package indexes
// and rendered diagrams.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (useful for depviz serve)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are built by a [Keyer] so that every backend sees the same layout.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. The boolean reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// IndexKey identifies a downloaded index archive by its URL.
	IndexKey(url string) string

	// RenderKey identifies a rendered diagram by the digest of its DOT
	// source, the output format and the backend that produced it.
	RenderKey(digest, format, backend string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default key builder.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// IndexKey returns "index:" followed by the SHA-256 of url.
func (DefaultKeyer) IndexKey(url string) string {
	return hashKey("index", url)
}

// RenderKey returns a key of the form "render:<backend>:<format>:<digest>".
func (DefaultKeyer) RenderKey(digest, format, backend string) string {
	return "render:" + backend + ":" + format + ":" + digest
}
