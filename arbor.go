package arbor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/aretw0/arbor/internal/adapters/http"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/assemble"
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/display"
	"github.com/aretw0/arbor/pkg/observe"
	"github.com/aretw0/arbor/pkg/tree"
)

// Version is the library version, overridden at build time.
var Version = "dev"

// Engine is the high-level entry point for the Arbor library. It owns
// the tree driver, the shared blackboard, and the snapshot and coverage
// visitors that back rendering and introspection.
type Engine struct {
	board    *blackboard.Blackboard
	tree     *tree.BehaviourTree
	snapshot *tree.SnapshotVisitor
	coverage *tree.CoverageVisitor
	renderer *display.Renderer
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithBoard shares an existing blackboard, so the tree's behaviours and
// the host program read the same store. Required when the root was
// built against a board directly.
func WithBoard(board *blackboard.Blackboard) Option {
	return func(e *Engine) {
		e.board = board
	}
}

// WithRenderer overrides the terminal renderer (colour profile etc.).
func WithRenderer(r *display.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// New wraps the tree rooted at root. When the root's behaviours use a
// blackboard, pass it with WithBoard; otherwise a fresh board backs the
// introspection endpoints.
func New(root behaviour.Node, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.board == nil {
		e.board = blackboard.New()
	}
	if e.renderer == nil {
		e.renderer = display.New()
	}

	e.snapshot = tree.NewSnapshotVisitor()
	e.coverage = tree.NewCoverageVisitor()

	t, err := tree.New(root,
		tree.WithLogger(e.logger),
		tree.WithVisitors(e.snapshot, e.coverage),
	)
	if err != nil {
		return nil, err
	}
	e.tree = t
	return e, nil
}

// FromYAML assembles a tree document with the built-in node kinds and
// wraps it. The engine's board is the one the document's blackboard
// behaviours were wired to.
func FromYAML(data []byte, opts ...Option) (*Engine, error) {
	board := blackboard.New()
	spec, err := assemble.Parse(data)
	if err != nil {
		return nil, err
	}
	root, err := assemble.New(board).Root(spec)
	if err != nil {
		return nil, err
	}
	return New(root, append([]Option{WithBoard(board)}, opts...)...)
}

// Board returns the shared blackboard.
func (e *Engine) Board() *blackboard.Blackboard { return e.board }

// Tree returns the underlying driver, for registering extra visitors or
// handlers.
func (e *Engine) Tree() *tree.BehaviourTree { return e.tree }

// Root returns the root node.
func (e *Engine) Root() behaviour.Node { return e.tree.Root() }

// Tick drives one full evaluation of the tree.
func (e *Engine) Tick() error { return e.tree.Tick() }

// TickTock ticks every period until cancellation, a violation, or count
// ticks. A negative count runs until cancelled.
func (e *Engine) TickTock(ctx context.Context, period time.Duration, count int) error {
	return e.tree.TickTock(ctx, period, count)
}

// EnableMetrics registers tick and node-visit counters on reg and
// attaches the metrics visitor. Call at most once per registry.
func (e *Engine) EnableMetrics(reg prometheus.Registerer) {
	e.tree.AddVisitor(observe.NewMetricsVisitor(reg))
}

// Render draws the tree with the last tick's path highlighted.
func (e *Engine) Render() string {
	return e.renderer.TreeWithSnapshot(e.tree.Root(), e.snapshot.Visited(), e.snapshot.PreviouslyVisited())
}

// RenderCoverage draws the tree annotated with observed outcomes.
func (e *Engine) RenderCoverage() string {
	return e.renderer.CoverageTree(e.tree.Root(), e.coverage)
}

// Coverage returns the engine's coverage visitor.
func (e *Engine) Coverage() *tree.CoverageVisitor { return e.coverage }

// CoverageReport lists per-node observed outcomes, parents first.
func (e *Engine) CoverageReport() []tree.NodeCoverage {
	return e.coverage.Report(e.tree.Root())
}

// CoverageSummary folds the report into the tree-wide metric.
func (e *Engine) CoverageSummary() tree.CoverageSummary {
	return e.coverage.Summary(e.tree.Root())
}

// Status reports the root's name and status and the tick count.
func (e *Engine) Status() (root string, status string, ticks int) {
	n := e.tree.Root()
	return n.Name(), string(n.Status()), e.tree.Count()
}

// Keys lists blackboard keys, filtered by pattern when non-empty.
func (e *Engine) Keys(pattern string) ([]string, error) {
	if pattern == "" {
		return e.board.Keys(), nil
	}
	return e.board.KeysFilteredByRegex(pattern)
}

// BlackboardSnapshot returns a deep-enough copy of the board for
// serialization.
func (e *Engine) BlackboardSnapshot() map[string]any {
	return e.board.Snapshot()
}

// Graph exports the tree as a Mermaid flowchart, with the last tick's
// path highlighted.
func (e *Engine) Graph() string {
	return display.GenerateMermaid(e.tree.Root(), &display.MermaidOverlay{Visited: e.snapshot.Visited()})
}

// Handler exposes the engine's introspection API as an http.Handler.
func (e *Engine) Handler() http.Handler {
	return httpadapter.NewHandler(e)
}
