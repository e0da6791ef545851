// Package composite provides the multi-child branch nodes, Sequence
// and Selector, which derive their status from their children.
package composite

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// Composite owns an ordered set of children and the resume cursor
// shared by Sequence and Selector. The tree is a strict forest: a node
// belongs to exactly one composite, and children are ticked strictly in
// declared order within a tick.
type Composite struct {
	*behaviour.Behaviour
	children []behaviour.Node
	memory   bool
	current  int
}

// Option configures a composite under construction.
type Option func(*Composite)

// WithoutMemory makes the composite restart from its first child every
// tick instead of resuming at the child that was RUNNING. Memory-less
// composites re-evaluate higher priority children each cycle.
func WithoutMemory() Option {
	return func(c *Composite) { c.memory = false }
}

func newComposite(name string, children []behaviour.Node, opts ...Option) Composite {
	c := Composite{
		Behaviour: behaviour.New(name),
		children:  children,
		memory:    true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Children returns the ordered child nodes.
func (c *Composite) Children() []behaviour.Node { return c.children }

// Stop forces the composite out of its cycle. Stopping with INVALID
// cancels the whole subtree: every child not already INVALID is
// invalidated, firing its terminate hook.
func (c *Composite) Stop(status domain.Status) {
	if status == domain.StatusInvalid {
		for _, child := range c.children {
			if child.Status() != domain.StatusInvalid {
				child.Stop(domain.StatusInvalid)
			}
		}
		c.current = 0
	}
	c.Behaviour.Stop(status)
}

// invalidateAfter invalidates children past index that still carry a
// live status from this or an earlier traversal. On a terminal break
// that is every later RUNNING or SUCCESS child; on a RUNNING break only
// preempted RUNNING children, leaving stale terminal statuses from a
// completed pass untouched.
func (c *Composite) invalidateAfter(index int, runningOnly bool) {
	for _, child := range c.children[index+1:] {
		switch child.Status() {
		case domain.StatusRunning:
			child.Stop(domain.StatusInvalid)
		case domain.StatusSuccess:
			if !runningOnly {
				child.Stop(domain.StatusInvalid)
			}
		}
	}
}
