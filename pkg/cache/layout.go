package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

// GetLayout loads a position map stored by SetLayout. An entry that cannot
// be decoded is deleted and reported as ErrCorrupt.
func GetLayout(ctx context.Context, c Cache, key string) (map[string]dag.Position, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	var pos map[string]dag.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		_ = c.Delete(ctx, key)
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return pos, true, nil
}

// SetLayout stores a position map under key.
func SetLayout(ctx context.Context, c Cache, key string, pos map[string]dag.Position, ttl time.Duration) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
