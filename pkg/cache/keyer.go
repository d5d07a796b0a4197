package cache

import (
	"fmt"

	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/layout"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of g under opts. Graphs with the same
	// node ids and edge endpoints, in the same order, share a key.
	LayoutKey(g *dag.Graph, opts layout.Options) string
}

// DefaultKeyer hashes the topology and the spacing options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

type layoutKeyParts struct {
	Nodes      []string    `json:"nodes"`
	Edges      [][2]string `json:"edges"`
	RankSep    float64     `json:"rank_sep"`
	NodeSep    float64     `json:"node_sep"`
	NodeWidth  float64     `json:"node_width"`
	NodeHeight float64     `json:"node_height"`
	Iterations int         `json:"iterations"`
	Orderer    string      `json:"orderer,omitempty"`
}

// LayoutKey implements Keyer. Labels and positions are not part of the key.
func (DefaultKeyer) LayoutKey(g *dag.Graph, opts layout.Options) string {
	edges := g.Edges()
	parts := layoutKeyParts{
		Nodes:      dag.NodeIDs(g.Nodes()),
		Edges:      make([][2]string, len(edges)),
		RankSep:    opts.RankSep,
		NodeSep:    opts.NodeSep,
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
		Iterations: opts.Iterations,
	}
	if opts.Orderer != nil {
		parts.Orderer = fmt.Sprintf("%#v", opts.Orderer)
	}
	for i, e := range edges {
		parts.Edges[i] = [2]string{e.Source, e.Target}
	}
	return hashKey("layout", parts)
}

// ScopedKeyer prefixes every key so that several editors can share one
// backend without seeing each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(g *dag.Graph, opts layout.Options) string {
	return k.prefix + k.inner.LayoutKey(g, opts)
}
