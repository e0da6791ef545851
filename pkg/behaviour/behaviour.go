package behaviour

import (
	"github.com/google/uuid"

	"github.com/aretw0/arbor/pkg/domain"
)

// VisitFunc observes one node during a tick. The traversal invokes it
// once per visited node, children before their ancestors.
type VisitFunc func(Node)

// Node is one unit of a behaviour tree.
//
// Tick drives one evaluation and returns the node's new status,
// invoking visit depth-first, post-order, on every node it touches.
// Stop forces the node (and, for branch nodes, its subtree) out of its
// current cycle; parents use Stop(StatusInvalid) to cancel a branch
// that is no longer selected.
type Node interface {
	ID() uuid.UUID
	Name() string
	Status() domain.Status
	Message() string
	Tick(visit VisitFunc) domain.Status
	Stop(status domain.Status)
	Children() []Node
}

// Behaviour is the base leaf implementation. It owns identity, status
// and the diagnostic message, and runs the lifecycle state machine
// around three hooks:
//
//   - initialise fires when the node enters an active cycle, i.e. when
//     it is ticked while not RUNNING;
//   - update produces the new status and runs exactly once per tick;
//   - terminate fires when the node leaves RUNNING for a terminal
//     status, or when it is invalidated.
//
// update must not block and must not fail on expected domain
// conditions; missing data and failed comparisons map to FAILURE or
// RUNNING, never to an error.
type Behaviour struct {
	id      uuid.UUID
	name    string
	status  domain.Status
	message string

	initialise func()
	update     func() domain.Status
	terminate  func(domain.Status)
}

// Option configures a Behaviour under construction.
type Option func(*Behaviour)

// WithInitialise sets the hook fired on entry into an active cycle.
func WithInitialise(fn func()) Option {
	return func(b *Behaviour) { b.initialise = fn }
}

// WithUpdate sets the hook producing the node's status each tick.
func WithUpdate(fn func() domain.Status) Option {
	return func(b *Behaviour) { b.update = fn }
}

// WithTerminate sets the hook fired on leaving RUNNING for a terminal
// status, or on invalidation.
func WithTerminate(fn func(domain.Status)) Option {
	return func(b *Behaviour) { b.terminate = fn }
}

// New creates a behaviour with a fresh unique id and INVALID status.
func New(name string, opts ...Option) *Behaviour {
	b := &Behaviour{
		id:     uuid.New(),
		name:   name,
		status: domain.StatusInvalid,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromFunc synthesises a minimal leaf from a plain status-producing
// function. The function receives the leaf so it can set its message.
func FromFunc(name string, fn func(*Behaviour) domain.Status) *Behaviour {
	b := New(name)
	b.update = func() domain.Status { return fn(b) }
	return b
}

// ID returns the stable identifier assigned at construction.
func (b *Behaviour) ID() uuid.UUID { return b.id }

// Name returns the display name.
func (b *Behaviour) Name() string { return b.name }

// Status returns the status produced by the most recent tick, or
// INVALID before the first one.
func (b *Behaviour) Status() domain.Status { return b.status }

// Message returns the diagnostic message from the most recent update.
func (b *Behaviour) Message() string { return b.message }

// SetMessage overwrites the diagnostic message.
func (b *Behaviour) SetMessage(message string) { b.message = message }

// SetStatus assigns the status directly. It is intended for composite
// and decorator implementations embedding Behaviour; leaves report
// status through their update hook instead.
func (b *Behaviour) SetStatus(status domain.Status) { b.status = status }

// Tick runs one lifecycle pass: initialise if entering an active cycle,
// update exactly once, terminate if leaving RUNNING for a terminal
// status (or on INVALID).
func (b *Behaviour) Tick(visit VisitFunc) domain.Status {
	previous := b.status
	if previous != domain.StatusRunning && b.initialise != nil {
		b.initialise()
	}

	next := domain.StatusInvalid
	if b.update != nil {
		next = b.update()
	}

	if (previous == domain.StatusRunning && next.Terminal()) || next == domain.StatusInvalid {
		if b.terminate != nil {
			b.terminate(next)
		}
	}
	b.status = next

	if visit != nil {
		visit(b)
	}
	return next
}

// Stop forces the node out of its current cycle, firing terminate with
// the new status. Stopping a node already in that status is a no-op,
// which makes termination idempotent.
func (b *Behaviour) Stop(status domain.Status) {
	if b.status == status {
		return
	}
	if b.terminate != nil {
		b.terminate(status)
	}
	b.status = status
}

// Children returns nil; a bare behaviour is a leaf.
func (b *Behaviour) Children() []Node { return nil }

// Walk visits n and its descendants depth-first, pre-order. It walks
// the static structure outside any tick; tick-time observation happens
// through VisitFunc in post-order instead.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}
