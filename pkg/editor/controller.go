package editor

import (
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stagegraph/pkg/cache"
	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/dag/validate"
	"github.com/matzehuels/stagegraph/pkg/layout"
	"github.com/matzehuels/stagegraph/pkg/mutation"
	"github.com/matzehuels/stagegraph/pkg/observability"
)

// Command names reported to hooks and logs.
const (
	CmdAddNode         = "add_node"
	CmdConnect         = "connect"
	CmdDeleteSelection = "delete_selection"
	CmdLayout          = "layout"
	CmdLoad            = "load"
)

const layoutKeyType = "layout"

// Snapshot is the graph and its report at one point in time.
type Snapshot struct {
	Graph  *dag.Graph
	Report validate.Report
}

// Controller applies editing commands to a single graph.
type Controller struct {
	mu     sync.Mutex
	graph  *dag.Graph
	report validate.Report

	policy       *mutation.Policy
	layoutOpts   layout.Options
	validateOpts validate.Options
	cache        cache.Cache
	keyer        cache.Keyer
	cacheTTL     time.Duration
	logger       *log.Logger

	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Controller.
type Option func(*Controller)

// WithGraph sets the initial graph. The default is the empty graph.
func WithGraph(g *dag.Graph) Option {
	return func(c *Controller) { c.graph = g }
}

// WithPolicy replaces the mutation policy.
func WithPolicy(p *mutation.Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLayoutOptions sets the spacing used by RunLayout.
func WithLayoutOptions(opts layout.Options) Option {
	return func(c *Controller) { c.layoutOpts = opts }
}

// WithValidateOptions sets the validator thresholds.
func WithValidateOptions(opts validate.Options) Option {
	return func(c *Controller) { c.validateOpts = opts }
}

// WithCache memoizes layouts in store. A nil keyer means the default one.
func WithCache(store cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Controller) {
		c.cache = store
		if keyer != nil {
			c.keyer = keyer
		}
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller and validates its initial graph.
func New(opts ...Option) *Controller {
	c := &Controller{
		graph:      dag.New(),
		policy:     mutation.New(),
		layoutOpts: layout.DefaultOptions(),
		cache:      cache.NewNullCache(),
		keyer:      cache.NewDefaultKeyer(),
		logger:     log.New(io.Discard),
		subs:       make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.report = validate.ValidateWithOptions(c.graph, c.validateOpts)
	return c
}

// Graph returns the current graph.
func (c *Controller) Graph() *dag.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// Report returns the report for the current graph.
func (c *Controller) Report() validate.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// Snapshot returns the current graph and report together.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Graph: c.graph, Report: c.report}
}

// Subscribe registers fn to receive a snapshot after every applied command.
// fn runs synchronously while the controller is locked and must not call
// back into the controller. The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// AddNode adds a stage and returns it with the snapshot it produced.
// Rejections leave the graph unchanged and publish nothing.
func (c *Controller) AddNode(ctx context.Context, label string) (dag.Node, Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	g, n, err := c.policy.AddNode(c.graph, label)
	observability.Editor().OnMutation(ctx, CmdAddNode, time.Since(start), err)
	if err != nil {
		return dag.Node{}, Snapshot{Graph: c.graph, Report: c.report}, err
	}
	c.commit(ctx, g)
	c.logger.Debug("node added", "id", n.ID, "label", n.Label)
	return n, Snapshot{Graph: c.graph, Report: c.report}, nil
}

// Connect adds an edge from source to target.
func (c *Controller) Connect(ctx context.Context, source, target string) (dag.Edge, Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	g, e, err := c.policy.Connect(c.graph, source, target)
	observability.Editor().OnMutation(ctx, CmdConnect, time.Since(start), err)
	if err != nil {
		return dag.Edge{}, Snapshot{Graph: c.graph, Report: c.report}, err
	}
	c.commit(ctx, g)
	c.logger.Debug("edge added", "id", e.ID, "source", source, "target", target)
	return e, Snapshot{Graph: c.graph, Report: c.report}, nil
}

// DeleteSelection removes nodes and edges, cascading to incident edges.
func (c *Controller) DeleteSelection(ctx context.Context, nodeIDs, edgeIDs []string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	g := c.policy.DeleteSelection(c.graph, nodeIDs, edgeIDs)
	observability.Editor().OnMutation(ctx, CmdDeleteSelection, time.Since(start), nil)
	c.commit(ctx, g)
	c.logger.Debug("selection deleted", "nodes", len(nodeIDs), "edges", len(edgeIDs))
	return Snapshot{Graph: c.graph, Report: c.report}
}

// Load replaces the whole graph, as when importing a file.
func (c *Controller) Load(ctx context.Context, g *dag.Graph) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	observability.Editor().OnMutation(ctx, CmdLoad, 0, nil)
	c.commit(ctx, g)
	return Snapshot{Graph: c.graph, Report: c.report}
}

// RunLayout recomputes every node position. It never fails; cache errors
// are logged and the layout is computed directly.
func (c *Controller) RunLayout(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, c.graph.NodeCount())

	pos, stats, cached := c.layout(ctx, c.graph)
	hooks.OnLayoutComplete(ctx, stats, cached, time.Since(start))
	observability.Editor().OnMutation(ctx, CmdLayout, time.Since(start), nil)

	c.commit(ctx, layout.Apply(c.graph, pos))
	c.logger.Debug("layout applied", "nodes", stats.Nodes, "cached", cached)
	return Snapshot{Graph: c.graph, Report: c.report}
}

func (c *Controller) layout(ctx context.Context, g *dag.Graph) (map[string]dag.Position, observability.LayoutStats, bool) {
	stats := observability.LayoutStats{Nodes: g.NodeCount()}
	key := c.keyer.LayoutKey(g, c.layoutOpts)
	cacheHooks := observability.Cache()

	pos, hit, err := cache.GetLayout(ctx, c.cache, key)
	if err != nil {
		c.logger.Warn("layout cache read failed", "err", err)
		cacheHooks.OnCacheError(ctx, layoutKeyType, err)
	}
	if hit {
		cacheHooks.OnCacheHit(ctx, layoutKeyType)
		return pos, stats, true
	}
	cacheHooks.OnCacheMiss(ctx, layoutKeyType)

	pos, ls := layout.ComputeWithStats(g, c.layoutOpts)
	stats.Ranks = ls.Ranks
	stats.Crossings = ls.Crossings

	if err := cache.SetLayout(ctx, c.cache, key, pos, c.cacheTTL); err != nil {
		c.logger.Warn("layout cache write failed", "err", err)
		cacheHooks.OnCacheError(ctx, layoutKeyType, err)
	} else {
		cacheHooks.OnCacheSet(ctx, layoutKeyType, len(pos))
	}
	return pos, stats, false
}

// commit installs g, re-validates it and notifies subscribers. The caller
// holds c.mu.
func (c *Controller) commit(ctx context.Context, g *dag.Graph) {
	start := time.Now()
	c.graph = g
	c.report = validate.ValidateWithOptions(g, c.validateOpts)
	observability.Editor().OnValidation(ctx, g.NodeCount(), g.EdgeCount(),
		c.report.IsValid, len(c.report.Errors), time.Since(start))

	snap := Snapshot{Graph: c.graph, Report: c.report}
	for _, id := range slices.Sorted(maps.Keys(c.subs)) {
		c.subs[id](snap)
	}
}
