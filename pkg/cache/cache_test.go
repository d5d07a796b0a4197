package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/layout"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	value := []byte("value")
	if err := c.Set(ctx, "key", value, time.Minute); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped, Len() = %d", c.Len())
	}

	_ = c.Set(ctx, "forever", []byte("x"), 0)
	now = now.Add(24 * time.Hour)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry expired")
	}

	_ = c.Delete(ctx, "forever")
	if _, hit, _ := c.Get(ctx, "forever"); hit {
		t.Error("deleted entry returned")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "stale", []byte("old"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired file entry returned")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "key", []byte("value"), 0)
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d shard dirs left after Clear", len(entries))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		opts    Options
		wantErr bool
	}{
		{Options{}, false},
		{Options{Backend: BackendNone}, false},
		{Options{Backend: BackendMemory}, false},
		{Options{Backend: BackendFile, Dir: t.TempDir()}, false},
		{Options{Backend: "memcached"}, true},
	}

	for _, tt := range tests {
		c, err := Open(ctx, tt.opts)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%+v) error = %v, wantErr %v", tt.opts, err, tt.wantErr)
			continue
		}
		if c != nil {
			c.Close()
		}
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("STAGEGRAPH_TEST_REDIS")
	if addr == "" {
		t.Skip("STAGEGRAPH_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := "stagegraph-test:" + t.Name()
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key returned")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func keyerGraph(t *testing.T, label string, edges []dag.Edge) *dag.Graph {
	t.Helper()
	g, err := dag.Build([]dag.Node{
		{ID: "a", Label: label},
		{ID: "b", Label: "B", Position: dag.Position{X: 7}},
	}, edges)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := layout.DefaultOptions()
	ab := []dag.Edge{{ID: "e1", Source: "a", Target: "b"}}

	base := k.LayoutKey(keyerGraph(t, "A", ab), opts)
	if !strings.HasPrefix(base, "layout:") {
		t.Errorf("LayoutKey = %s", base)
	}

	if got := k.LayoutKey(keyerGraph(t, "renamed", ab), opts); got != base {
		t.Error("labels should not affect the key")
	}

	if got := k.LayoutKey(keyerGraph(t, "A", []dag.Edge{{ID: "e9", Source: "a", Target: "b"}}), opts); got != base {
		t.Error("edge ids should not affect the key")
	}

	if got := k.LayoutKey(keyerGraph(t, "A", []dag.Edge{{ID: "e1", Source: "b", Target: "a"}}), opts); got == base {
		t.Error("edge direction should affect the key")
	}

	wide := opts
	wide.RankSep = 300
	if got := k.LayoutKey(keyerGraph(t, "A", ab), wide); got == base {
		t.Error("options should affect the key")
	}

	exhaustive := opts
	exhaustive.Orderer = layout.Exhaustive{}
	if got := k.LayoutKey(keyerGraph(t, "A", ab), exhaustive); got == base {
		t.Error("orderer should affect the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	g := keyerGraph(t, "A", nil)
	opts := layout.DefaultOptions()

	scoped := NewScopedKeyer(nil, "editor:1:")
	key := scoped.LayoutKey(g, opts)
	if key != "editor:1:"+NewDefaultKeyer().LayoutKey(g, opts) {
		t.Errorf("ScopedKeyer LayoutKey = %s", key)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	pos := map[string]dag.Position{"a": {X: 0, Y: 50}, "b": {X: 220, Y: 0}}

	if err := SetLayout(ctx, c, "k", pos, 0); err != nil {
		t.Fatal(err)
	}
	got, hit, err := GetLayout(ctx, c, "k")
	if err != nil || !hit {
		t.Fatalf("GetLayout() hit=%v err=%v", hit, err)
	}
	if got["a"] != pos["a"] || got["b"] != pos["b"] {
		t.Errorf("GetLayout() = %v", got)
	}

	_ = c.Set(ctx, "bad", []byte("nope"), 0)
	if _, hit, err := GetLayout(ctx, c, "bad"); hit || !errors.Is(err, ErrCorrupt) {
		t.Errorf("corrupt layout: hit=%v err=%v", hit, err)
	}
	if c.Len() != 1 {
		t.Error("corrupt layout entry not deleted")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	if IsRetryable(ErrCorrupt) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 200 * time.Millisecond })

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCorrupt
	})
	if err != ErrCorrupt || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
