// Package config loads stagegraph settings from a TOML file.
//
// A missing file is not an error: every setting has a default, and a file
// only needs to list what it changes.
//
//	[layout]
//	rank_sep = 100.0
//	node_sep = 50.0
//	node_width = 120.0
//	node_height = 50.0
//	iterations = 8
//
//	[validation]
//	max_recommended_nodes = 10
//
//	[server]
//	addr = "127.0.0.1:8080"
//
//	[cache]
//	backend = "memory"   # none | memory | file | redis
//	dir = ""             # file backend; empty means the user cache dir
//	redis_addr = "localhost:6379"
//	ttl = "1h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stagegraph/pkg/cache"
	"github.com/matzehuels/stagegraph/pkg/dag/validate"
	"github.com/matzehuels/stagegraph/pkg/layout"
)

// Config is the full settings tree.
type Config struct {
	Layout     Layout     `toml:"layout"`
	Validation Validation `toml:"validation"`
	Server     Server     `toml:"server"`
	Cache      Cache      `toml:"cache"`
}

// Layout mirrors layout.Options.
type Layout struct {
	RankSep    float64 `toml:"rank_sep"`
	NodeSep    float64 `toml:"node_sep"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	Iterations int     `toml:"iterations"`
	// Ordering is "barycentric" or "exhaustive".
	Ordering string `toml:"ordering"`
}

// Ordering strategies for [layout] ordering.
const (
	OrderingBarycentric = "barycentric"
	OrderingExhaustive  = "exhaustive"
)

// Validation holds validator thresholds.
type Validation struct {
	MaxRecommendedNodes int `toml:"max_recommended_nodes"`
}

// Server configures the HTTP editing surface.
type Server struct {
	Addr string `toml:"addr"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	KeyPrefix string   `toml:"key_prefix"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	lo := layout.DefaultOptions()
	return Config{
		Layout: Layout{
			RankSep:    lo.RankSep,
			NodeSep:    lo.NodeSep,
			NodeWidth:  lo.NodeWidth,
			NodeHeight: lo.NodeHeight,
			Iterations: lo.Iterations,
			Ordering:   OrderingBarycentric,
		},
		Validation: Validation{MaxRecommendedNodes: validate.DefaultMaxRecommendedNodes},
		Server:     Server{Addr: "127.0.0.1:8080"},
		Cache: Cache{
			Backend:   cache.BackendNone,
			RedisAddr: "localhost:6379",
			KeyPrefix: "stagegraph:",
			TTL:       Duration(time.Hour),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/stagegraph/config.toml, or the
// platform equivalent from os.UserConfigDir.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "stagegraph", "config.toml")
}

// Load reads path on top of Default. An empty path means DefaultPath; a
// missing file yields the defaults. Unknown keys are rejected so typos do
// not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Layout.RankSep < 0 || c.Layout.NodeSep < 0 {
		errs = append(errs, errors.New("layout separations must not be negative"))
	}
	if c.Layout.NodeWidth <= 0 || c.Layout.NodeHeight <= 0 {
		errs = append(errs, errors.New("layout node size must be positive"))
	}
	if c.Layout.Iterations < 1 {
		errs = append(errs, errors.New("layout iterations must be at least 1"))
	}
	if c.Layout.Ordering != OrderingBarycentric && c.Layout.Ordering != OrderingExhaustive {
		errs = append(errs, fmt.Errorf("layout ordering %q must be %s or %s", c.Layout.Ordering, OrderingBarycentric, OrderingExhaustive))
	}
	if c.Validation.MaxRecommendedNodes < 1 {
		errs = append(errs, errors.New("validation max_recommended_nodes must be at least 1"))
	}
	backends := []string{cache.BackendNone, cache.BackendMemory, cache.BackendFile, cache.BackendRedis}
	if !slices.Contains(backends, c.Cache.Backend) {
		errs = append(errs, fmt.Errorf("cache backend %q must be one of %s", c.Cache.Backend, strings.Join(backends, ", ")))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// LayoutOptions converts the [layout] section.
func (c Config) LayoutOptions() layout.Options {
	opts := layout.Options{
		RankSep:    c.Layout.RankSep,
		NodeSep:    c.Layout.NodeSep,
		NodeWidth:  c.Layout.NodeWidth,
		NodeHeight: c.Layout.NodeHeight,
		Iterations: c.Layout.Iterations,
	}
	if c.Layout.Ordering == OrderingExhaustive {
		opts.Orderer = layout.Exhaustive{
			Base: layout.Barycentric{Passes: c.Layout.Iterations, Transpose: true},
		}
	}
	return opts
}

// ValidateOptions converts the [validation] section.
func (c Config) ValidateOptions() validate.Options {
	return validate.Options{MaxRecommendedNodes: c.Validation.MaxRecommendedNodes}
}

// CacheOptions converts the [cache] section.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
	}
}

// CacheKeyer returns the keyer for the configured backend. A shared Redis
// backend gets keys scoped by key_prefix; local backends use bare keys.
func (c Config) CacheKeyer() cache.Keyer {
	if c.Cache.Backend == cache.BackendRedis && c.Cache.KeyPrefix != "" {
		return cache.NewScopedKeyer(nil, c.Cache.KeyPrefix)
	}
	return cache.NewDefaultKeyer()
}

// CacheTTL returns the cache entry lifetime.
func (c Config) CacheTTL() time.Duration { return time.Duration(c.Cache.TTL) }
