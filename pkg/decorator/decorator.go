// Package decorator provides single-child wrappers that transform or
// gate the wrapped node's status, plus the test-injection and coverage
// instrumentation built on the same shape.
package decorator

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// Decorator wraps exactly one child and derives its own status from a
// transform of the child's. Its traversal yields the child's visited
// nodes before itself, keeping the tick depth-first and post-order.
type Decorator struct {
	*behaviour.Behaviour
	child     behaviour.Node
	transform func(domain.Status) domain.Status
}

var _ behaviour.Node = (*Decorator)(nil)

// New creates a decorator around child. A nil transform passes the
// child's status through unchanged.
func New(name string, child behaviour.Node, transform func(domain.Status) domain.Status) *Decorator {
	return &Decorator{
		Behaviour: behaviour.New(name),
		child:     child,
		transform: transform,
	}
}

// Child returns the wrapped node.
func (d *Decorator) Child() behaviour.Node { return d.child }

// Children returns the single wrapped node.
func (d *Decorator) Children() []behaviour.Node {
	return []behaviour.Node{d.child}
}

// Tick ticks the child, then derives the decorator's status.
func (d *Decorator) Tick(visit behaviour.VisitFunc) domain.Status {
	next := d.child.Tick(visit)
	if d.transform != nil {
		next = d.transform(next)
	}
	d.SetStatus(next)
	if visit != nil {
		visit(d)
	}
	return next
}

// Stop forces the decorator out of its cycle; INVALID propagates into
// the wrapped subtree.
func (d *Decorator) Stop(status domain.Status) {
	if status == domain.StatusInvalid && d.child.Status() != domain.StatusInvalid {
		d.child.Stop(domain.StatusInvalid)
	}
	d.Behaviour.Stop(status)
}

// remap builds a transform rewriting one status, identity elsewhere.
func remap(from, to domain.Status) func(domain.Status) domain.Status {
	return func(s domain.Status) domain.Status {
		if s == from {
			return to
		}
		return s
	}
}

// NewInverter swaps SUCCESS and FAILURE; RUNNING passes through.
func NewInverter(child behaviour.Node) *Decorator {
	return New("inverter", child, func(s domain.Status) domain.Status {
		switch s {
		case domain.StatusSuccess:
			return domain.StatusFailure
		case domain.StatusFailure:
			return domain.StatusSuccess
		default:
			return s
		}
	})
}

// NewFailureIsRunning masks the child's failures as pending work.
func NewFailureIsRunning(child behaviour.Node) *Decorator {
	return New("failure-is-running", child, remap(domain.StatusFailure, domain.StatusRunning))
}

// NewFailureIsSuccess absorbs the child's failures.
func NewFailureIsSuccess(child behaviour.Node) *Decorator {
	return New("failure-is-success", child, remap(domain.StatusFailure, domain.StatusSuccess))
}

// NewRunningIsFailure treats pending work as failure.
func NewRunningIsFailure(child behaviour.Node) *Decorator {
	return New("running-is-failure", child, remap(domain.StatusRunning, domain.StatusFailure))
}

// NewSuccessIsFailure inverts success only; RUNNING and FAILURE pass
// through.
func NewSuccessIsFailure(child behaviour.Node) *Decorator {
	return New("success-is-failure", child, remap(domain.StatusSuccess, domain.StatusFailure))
}
