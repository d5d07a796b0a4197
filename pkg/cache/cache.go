// Package cache memoizes computed layouts.
//
// Layout is a pure function of the graph topology and the layout options,
// so its result can be stored under a hash of those inputs and reused the
// next time the same topology is laid out. Labels and current positions do
// not take part in the key.
//
// # Backends
//
//   - [NullCache]: never stores anything (the default)
//   - [MemoryCache]: in-process map with expiry, for the HTTP server
//   - [FileCache]: one file per entry, for repeated CLI runs
//   - [RedisCache]: shared cache for several server instances
//
// All backends treat an expired or undecodable entry as a miss. Callers are
// expected to log backend errors and carry on as if the entry were missing.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
}

// Open creates the cache named by opts.Backend. An empty backend means
// BackendNone.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
