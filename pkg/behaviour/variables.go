package behaviour

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

// CompareFunc decides whether a stored value matches the expected one.
type CompareFunc func(value, expected any) bool

// Equal is the default comparison, a deep equality check.
func Equal(value, expected any) bool {
	return reflect.DeepEqual(value, expected)
}

// topLevel returns the key segment permissions are granted on.
func topLevel(variable string) string {
	head, _, _ := strings.Cut(variable, ".")
	return head
}

// NewSetVariable returns a leaf that writes a variable on initialise
// and ticks over SUCCESS. Handy for keeping blackboard bookkeeping out
// of more atomic behaviours.
func NewSetVariable(board *blackboard.Blackboard, name, variable string, value any) *Behaviour {
	b := New(name)
	client := board.Register(name, b.ID(), nil, []string{variable})
	b.initialise = func() {
		if err := client.Set(variable, value, true); err != nil {
			b.SetMessage(err.Error())
		}
	}
	b.update = func() domain.Status {
		b.SetMessage("success")
		return domain.StatusSuccess
	}
	return b
}

// NewClearVariable returns a leaf that removes a variable on initialise
// and ticks over SUCCESS. Clearing an absent variable is not a failure.
func NewClearVariable(board *blackboard.Blackboard, name, variable string) *Behaviour {
	b := New(name)
	client := board.Register(name, b.ID(), nil, []string{variable})
	b.initialise = func() {
		if err := client.Unset(variable); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
			b.SetMessage(err.Error())
		}
	}
	b.update = func() domain.Status {
		b.SetMessage("success")
		return domain.StatusSuccess
	}
	return b
}

// CheckOption configures a CheckVariable or WaitForVariable behaviour.
type CheckOption func(*checkConfig)

type checkConfig struct {
	expected any
	compare  CompareFunc
	policy   domain.ClearingPolicy
}

// WithExpectedValue makes the check match against a value rather than
// mere existence.
func WithExpectedValue(expected any) CheckOption {
	return func(c *checkConfig) { c.expected = expected }
}

// WithCompare overrides the comparison used against the expected value.
func WithCompare(fn CompareFunc) CheckOption {
	return func(c *checkConfig) { c.compare = fn }
}

// WithClearingPolicy controls when the cached match result is
// discarded.
func WithClearingPolicy(policy domain.ClearingPolicy) CheckOption {
	return func(c *checkConfig) { c.policy = policy }
}

// CheckVariable checks the blackboard for a variable, and optionally
// that it holds an expected value. It is binary: every tick yields
// SUCCESS or FAILURE.
//
// The cached match result is consulted before the store is re-read, so
// once a result is cached (per the clearing policy) a later deletion of
// the variable goes unnoticed until the node is invalidated. That is
// the caching policy, inherited and kept.
type CheckVariable struct {
	*Behaviour
	client   *blackboard.Client
	variable string
	config   checkConfig
	matched  *domain.Status
}

// NewCheckVariable creates a check on variable. Without
// WithExpectedValue it checks for existence only. The variable may be a
// dotted path; permission is granted on its top-level key.
func NewCheckVariable(board *blackboard.Blackboard, name, variable string, opts ...CheckOption) *CheckVariable {
	c := &CheckVariable{
		Behaviour: New(name),
		variable:  variable,
		config: checkConfig{
			compare: Equal,
			policy:  domain.ClearOnInitialise,
		},
	}
	for _, opt := range opts {
		opt(&c.config)
	}
	c.client = board.Register(name, c.ID(), []string{topLevel(variable)}, nil)
	c.Behaviour.initialise = c.begin
	c.Behaviour.update = c.check
	c.Behaviour.terminate = c.finish
	return c
}

func (c *CheckVariable) begin() {
	if c.config.policy == domain.ClearOnInitialise {
		c.matched = nil
	}
}

func (c *CheckVariable) check() domain.Status {
	if c.matched != nil {
		return *c.matched
	}

	result := c.evaluate(domain.StatusFailure)

	if result == domain.StatusSuccess && c.config.policy == domain.ClearOnSuccess {
		c.matched = nil
	} else {
		c.matched = &result
	}
	return result
}

// evaluate performs the actual store read and comparison. A missing
// variable (or sub-field) maps to the absent status, never an error.
func (c *CheckVariable) evaluate(absent domain.Status) domain.Status {
	value, err := c.client.Get(c.variable)
	if err != nil {
		c.SetMessage(fmt.Sprintf("variable %q did not exist", c.variable))
		return absent
	}
	if c.config.expected == nil {
		c.SetMessage(fmt.Sprintf("%q exists on the blackboard (as required)", c.variable))
		return domain.StatusSuccess
	}
	if c.config.compare(value, c.config.expected) {
		c.SetMessage(fmt.Sprintf("%q comparison succeeded", c.variable))
		return domain.StatusSuccess
	}
	c.SetMessage(fmt.Sprintf("%q comparison failed", c.variable))
	return absent
}

func (c *CheckVariable) finish(next domain.Status) {
	// A parent invalidation always discards the cached match.
	if next == domain.StatusInvalid {
		c.matched = nil
	}
}

// WaitForVariable is the patient variant of CheckVariable: it reports
// RUNNING until the variable appears and (optionally) matches, then
// SUCCESS. Only terminal results are cached.
type WaitForVariable struct {
	*Behaviour
	check *CheckVariable
}

// NewWaitForVariable creates a wait on variable; options as for
// NewCheckVariable.
func NewWaitForVariable(board *blackboard.Blackboard, name, variable string, opts ...CheckOption) *WaitForVariable {
	w := &WaitForVariable{
		check: NewCheckVariable(board, name, variable, opts...),
	}
	w.Behaviour = w.check.Behaviour
	w.Behaviour.update = w.wait
	return w
}

func (w *WaitForVariable) wait() domain.Status {
	c := w.check
	if c.matched != nil {
		return *c.matched
	}

	result := c.evaluate(domain.StatusRunning)

	if result == domain.StatusSuccess && c.config.policy == domain.ClearOnSuccess {
		c.matched = nil
	} else if result != domain.StatusRunning {
		c.matched = &result
	}
	return result
}
