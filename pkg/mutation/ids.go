package mutation

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID prefixes for generated identifiers.
const (
	NodePrefix = "node"
	EdgePrefix = "edge"
)

// IDGenerator hands out identifiers that are unique for the life of an
// editing session.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator produces "<prefix>-<uuid>" identifiers.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequentialGenerator produces "<prefix>-1", "<prefix>-2", ... with one
// shared counter. It is safe for concurrent use and meant for tests and
// reproducible fixtures.
type SequentialGenerator struct {
	n atomic.Uint64
}

// NewID implements IDGenerator.
func (s *SequentialGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}
