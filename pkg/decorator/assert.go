package decorator

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// AssertNever passes its child's status through, but treats one
// forbidden status as a contract violation: observing it aborts the
// tick with a domain.AssertionViolationError. The tree driver surfaces
// the violation as the error of the Tick call; it is never reported as
// a status.
type AssertNever struct {
	*Decorator
	forbidden domain.Status
}

var _ behaviour.Node = (*AssertNever)(nil)

// NewAssertNever creates an assertion that child never produces the
// forbidden status.
func NewAssertNever(child behaviour.Node, forbidden domain.Status) *AssertNever {
	return &AssertNever{
		Decorator: New("assert-never", child, nil),
		forbidden: forbidden,
	}
}

// Tick ticks the child and panics with an AssertionViolationError if
// the forbidden status is observed.
func (a *AssertNever) Tick(visit behaviour.VisitFunc) domain.Status {
	next := a.child.Tick(visit)
	if next == a.forbidden {
		panic(&domain.AssertionViolationError{
			NodeID:   a.child.ID(),
			NodeName: a.child.Name(),
			Status:   next,
		})
	}
	a.SetStatus(next)
	if visit != nil {
		visit(a)
	}
	return next
}
