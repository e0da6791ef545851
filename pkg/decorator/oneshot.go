package decorator

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// OneShot latches the first terminal status its child produces and
// reports it forever after, without ticking the child again.
type OneShot struct {
	*Decorator
	final *domain.Status
}

var _ behaviour.Node = (*OneShot)(nil)

// NewOneShot creates a one-shot latch around child.
func NewOneShot(child behaviour.Node) *OneShot {
	return &OneShot{Decorator: New("one-shot", child, nil)}
}

// Tick forwards to the child until a terminal status is latched; after
// that the node behaves as a leaf.
func (o *OneShot) Tick(visit behaviour.VisitFunc) domain.Status {
	if o.final != nil {
		o.SetStatus(*o.final)
		if visit != nil {
			visit(o)
		}
		return *o.final
	}

	next := o.Decorator.Tick(visit)
	if next.Terminal() {
		o.final = &next
		o.SetMessage("latched " + string(next))
	}
	return next
}
