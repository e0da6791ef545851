// Package tree provides the driver that owns a behaviour tree's root,
// runs full ticks, and fires visitors over every visited node, plus the
// snapshot and coverage visitors used for rendering and verification.
package tree

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// ErrNilRoot is returned when a tree is constructed without a root.
var ErrNilRoot = errors.New("behaviour tree root must not be nil")

// Handler runs before or after a tick, outside the traversal.
type Handler func(*BehaviourTree)

// BehaviourTree owns the root node and drives it. One Tick runs the
// root's traversal to completion exactly once; the engine is single
// threaded and cooperative, so a tick always finishes before the next
// begins.
type BehaviourTree struct {
	root     behaviour.Node
	visitors []Visitor
	preTick  []Handler
	postTick []Handler
	count    int
	logger   *slog.Logger
}

// Option configures a BehaviourTree.
type Option func(*BehaviourTree)

// WithLogger sets a structured logger for tick tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *BehaviourTree) { t.logger = logger }
}

// WithVisitors registers visitors at construction.
func WithVisitors(visitors ...Visitor) Option {
	return func(t *BehaviourTree) { t.visitors = append(t.visitors, visitors...) }
}

// New creates a driver for the tree rooted at root.
func New(root behaviour.Node, opts ...Option) (*BehaviourTree, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	t := &BehaviourTree{
		root:   root,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Root returns the root node.
func (t *BehaviourTree) Root() behaviour.Node { return t.root }

// Count returns the number of completed ticks.
func (t *BehaviourTree) Count() int { return t.count }

// AddVisitor registers a visitor; it fires once per visited node, in
// traversal (depth-first, post-order) order.
func (t *BehaviourTree) AddVisitor(v Visitor) {
	t.visitors = append(t.visitors, v)
}

// AddPreTickHandler registers a handler fired before every tick.
func (t *BehaviourTree) AddPreTickHandler(h Handler) {
	t.preTick = append(t.preTick, h)
}

// AddPostTickHandler registers a handler fired after every completed
// tick.
func (t *BehaviourTree) AddPostTickHandler(h Handler) {
	t.postTick = append(t.postTick, h)
}

// Tick drives one full evaluation of the tree.
//
// The only error a tick can produce is an assertion violation from an
// assertion decorator; it aborts the traversal and surfaces here.
// Every other domain outcome is a Status on the root.
func (t *BehaviourTree) Tick() (err error) {
	for _, h := range t.preTick {
		h(t)
	}
	for _, v := range t.visitors {
		v.Initialise()
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		violation, ok := r.(*domain.AssertionViolationError)
		if !ok {
			panic(r)
		}
		t.logger.Error("tick aborted", "err", violation)
		err = violation
	}()

	t.root.Tick(func(n behaviour.Node) {
		for _, v := range t.visitors {
			v.Visit(n)
		}
	})

	t.count++
	for _, h := range t.postTick {
		h(t)
	}
	t.logger.Debug("tick",
		"count", t.count,
		"root", t.root.Name(),
		"status", t.root.Status(),
	)
	return nil
}

// TickTock ticks the tree every period until the context is cancelled,
// an assertion violation aborts a tick, or count ticks have run. A
// negative count runs until cancelled.
func (t *BehaviourTree) TickTock(ctx context.Context, period time.Duration, count int) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for i := 0; count < 0 || i < count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := t.Tick(); err != nil {
			return err
		}
	}
	return nil
}
