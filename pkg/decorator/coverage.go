package decorator

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// CoverageTally accumulates the outcomes observed for one node. All
// counters are monotonically non-decreasing.
type CoverageTally struct {
	Ticks     int
	Successes int
	Runs      int
	Failures  int
}

func (t CoverageTally) String() string {
	return fmt.Sprintf("ticks: %d, s: %d, r: %d, f: %d", t.Ticks, t.Successes, t.Runs, t.Failures)
}

// CoverageCounter wraps a node and counts its ticks and observed
// statuses, keyed by the wrapped node's id. It is transparent
// instrumentation: the wrapped status is always forwarded unchanged,
// and the running tally only surfaces as the counter's diagnostic
// message.
type CoverageCounter struct {
	*Decorator
	tally CoverageTally
}

var _ behaviour.Node = (*CoverageCounter)(nil)

// NewCoverageCounter wraps child in a counter.
func NewCoverageCounter(child behaviour.Node) *CoverageCounter {
	return &CoverageCounter{Decorator: New("coverage-counter", child, nil)}
}

// Tally returns the accumulated counts for the wrapped node.
func (c *CoverageCounter) Tally() CoverageTally { return c.tally }

// Tick ticks the child, records the outcome against the child's id and
// forwards the status unchanged.
func (c *CoverageCounter) Tick(visit behaviour.VisitFunc) domain.Status {
	next := c.child.Tick(visit)

	c.tally.Ticks++
	switch next {
	case domain.StatusSuccess:
		c.tally.Successes++
	case domain.StatusRunning:
		c.tally.Runs++
	case domain.StatusFailure:
		c.tally.Failures++
	}
	c.SetMessage(fmt.Sprintf("%s [%s]", c.tally, c.child.Name()))

	c.SetStatus(next)
	if visit != nil {
		visit(c)
	}
	return next
}
