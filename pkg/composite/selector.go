package composite

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// Selector is the dual of Sequence: it ticks children left to right and
// succeeds on the first child that succeeds, failing only when every
// child fails.
//
// The RUNNING, cursor and invalidation rules mirror Sequence. Built
// WithoutMemory, the selector restarts from its first child every tick,
// so a higher priority child that recovers preempts a lower one; the
// preempted RUNNING branch is invalidated.
type Selector struct {
	Composite
}

var _ behaviour.Node = (*Selector)(nil)

// NewSelector creates a selector over children.
func NewSelector(name string, children []behaviour.Node, opts ...Option) *Selector {
	return &Selector{Composite: newComposite(name, children, opts...)}
}

// Tick evaluates children in order, stopping at the first SUCCESS or
// RUNNING child.
func (s *Selector) Tick(visit behaviour.VisitFunc) domain.Status {
	if s.Status() != domain.StatusRunning || !s.memory {
		s.current = 0
	}

	result := domain.StatusFailure
	for i := s.current; i < len(s.children); i++ {
		switch s.children[i].Tick(visit) {
		case domain.StatusRunning:
			s.current = i
			s.invalidateAfter(i, true)
			result = domain.StatusRunning
		case domain.StatusSuccess:
			s.invalidateAfter(i, false)
			s.current = 0
			result = domain.StatusSuccess
		default:
			continue
		}
		break
	}
	if result == domain.StatusFailure {
		s.current = 0
	}

	s.SetStatus(result)
	if visit != nil {
		visit(s)
	}
	return result
}
