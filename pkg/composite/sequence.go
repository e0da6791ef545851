package composite

import (
	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// Sequence ticks its children left to right, succeeding only when all
// of them succeed.
//
// A RUNNING child halts the traversal and the sequence remembers its
// index, resuming there next tick without re-ticking earlier completed
// children (unless built WithoutMemory, in which case every tick
// restarts from the first child). A FAILURE child fails the sequence
// immediately and invalidates every later child still holding a live
// status, resetting the cursor.
type Sequence struct {
	Composite
}

var _ behaviour.Node = (*Sequence)(nil)

// NewSequence creates a sequence over children.
func NewSequence(name string, children []behaviour.Node, opts ...Option) *Sequence {
	return &Sequence{Composite: newComposite(name, children, opts...)}
}

// Tick evaluates children in order, applying the short-circuit and
// invalidation rules above.
func (s *Sequence) Tick(visit behaviour.VisitFunc) domain.Status {
	if s.Status() != domain.StatusRunning || !s.memory {
		s.current = 0
	}

	result := domain.StatusSuccess
	for i := s.current; i < len(s.children); i++ {
		switch s.children[i].Tick(visit) {
		case domain.StatusRunning:
			s.current = i
			s.invalidateAfter(i, true)
			result = domain.StatusRunning
		case domain.StatusFailure:
			s.invalidateAfter(i, false)
			s.current = 0
			result = domain.StatusFailure
		default:
			continue
		}
		break
	}
	if result == domain.StatusSuccess {
		s.current = 0
	}

	s.SetStatus(result)
	if visit != nil {
		visit(s)
	}
	return result
}
