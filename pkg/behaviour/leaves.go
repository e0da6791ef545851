package behaviour

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// NewSuccess returns a leaf that does nothing but tick over SUCCESS.
func NewSuccess(name string) *Behaviour {
	return FromFunc(name, func(b *Behaviour) domain.Status {
		b.SetMessage("success")
		return domain.StatusSuccess
	})
}

// NewFailure returns a leaf that does nothing but tick over FAILURE.
func NewFailure(name string) *Behaviour {
	return FromFunc(name, func(b *Behaviour) domain.Status {
		b.SetMessage("failure")
		return domain.StatusFailure
	})
}

// NewRunning returns a leaf that does nothing but tick over RUNNING.
func NewRunning(name string) *Behaviour {
	return FromFunc(name, func(b *Behaviour) domain.Status {
		b.SetMessage("running")
		return domain.StatusRunning
	})
}

// NewDummy returns a crash test dummy, for anything dangerous.
func NewDummy(name string) *Behaviour {
	return FromFunc(name, func(b *Behaviour) domain.Status {
		b.SetMessage("crash test dummy")
		return domain.StatusRunning
	})
}

// Periodic rotates its status RUNNING -> SUCCESS -> FAILURE, holding
// each for n ticks. The count does not reset on initialise.
type Periodic struct {
	*Behaviour
	count    int
	period   int
	response domain.Status
}

// NewPeriodic creates a periodic leaf with the given period in ticks.
func NewPeriodic(name string, n int) *Periodic {
	p := &Periodic{
		Behaviour: New(name),
		period:    n,
		response:  domain.StatusRunning,
	}
	p.Behaviour.update = p.rotate
	return p
}

func (p *Periodic) rotate() domain.Status {
	p.count++
	if p.count > p.period {
		switch p.response {
		case domain.StatusFailure:
			p.response = domain.StatusRunning
			p.SetMessage("flip to running")
		case domain.StatusRunning:
			p.response = domain.StatusSuccess
			p.SetMessage("flip to success")
		default:
			p.response = domain.StatusFailure
			p.SetMessage("flip to failure")
		}
		p.count = 0
	} else {
		p.SetMessage("constant")
	}
	return p.response
}

// SuccessEveryN succeeds once every n ticks and fails otherwise. Pair
// it with a decorator to reshape the failures as desired.
type SuccessEveryN struct {
	*Behaviour
	count  int
	everyN int
}

// NewSuccessEveryN creates a leaf succeeding on every n'th tick.
func NewSuccessEveryN(name string, n int) *SuccessEveryN {
	s := &SuccessEveryN{
		Behaviour: New(name),
		everyN:    n,
	}
	s.Behaviour.update = s.step
	return s
}

func (s *SuccessEveryN) step() domain.Status {
	s.count++
	if s.count%s.everyN == 0 {
		s.SetMessage("now")
		return domain.StatusSuccess
	}
	s.SetMessage("not yet")
	return domain.StatusFailure
}

// Count walks its status through FAILURE, RUNNING and SUCCESS as its
// internal counter passes the configured thresholds, then fails
// forever. Useful for testing and demo scenarios.
type Count struct {
	*Behaviour
	count        int
	failUntil    int
	runningUntil int
	successUntil int
	resetOnStop  bool

	// Resets and Updates expose simple bookkeeping for tests.
	Resets  int
	Updates int
}

// NewCount creates a counting leaf. With reset set, invalidation by a
// parent zeroes the counter so the cycle starts over.
func NewCount(name string, failUntil, runningUntil, successUntil int, reset bool) *Count {
	c := &Count{
		Behaviour:    New(name),
		failUntil:    failUntil,
		runningUntil: runningUntil,
		successUntil: successUntil,
		resetOnStop:  reset,
	}
	c.Behaviour.update = c.step
	c.Behaviour.terminate = c.finish
	return c
}

func (c *Count) step() domain.Status {
	c.Updates++
	c.count++
	switch {
	case c.count <= c.failUntil:
		c.SetMessage(fmt.Sprintf("failing [%d]", c.count))
		return domain.StatusFailure
	case c.count <= c.runningUntil:
		c.SetMessage(fmt.Sprintf("running [%d]", c.count))
		return domain.StatusRunning
	case c.count <= c.successUntil:
		c.SetMessage(fmt.Sprintf("success [%d]", c.count))
		return domain.StatusSuccess
	default:
		c.SetMessage(fmt.Sprintf("failing forever more [%d]", c.count))
		return domain.StatusFailure
	}
}

func (c *Count) finish(next domain.Status) {
	if next == domain.StatusInvalid && c.resetOnStop {
		c.count = 0
		c.Resets++
	}
	c.SetMessage("")
}
