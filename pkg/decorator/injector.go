package decorator

import (
	"math/rand/v2"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

// InjectionEnabledKey is the blackboard key gating every injector in
// the process at once. Injectors register read and write permission on
// it; the first one constructed initialises it to false.
const InjectionEnabledKey = "test_injection_enabled"

// TestInjector hijacks its wrapped node into producing a synthetic
// status during verification, without altering the tree structure used
// in production.
//
// An injector carries at most one local override, a fixed status or
// random mode, last write wins. Overrides only take effect while the
// global blackboard gate is enabled. While injecting, the wrapped node
// is not ticked at all: the injector behaves as a leaf, the one
// deliberate exception to the decorator traversal rule.
type TestInjector struct {
	*Decorator
	client *blackboard.Client
	fixed  *domain.Status
	random bool
	rng    *rand.Rand
}

var _ behaviour.Node = (*TestInjector)(nil)

// InjectorOption configures a TestInjector.
type InjectorOption func(*TestInjector)

// WithRand sets the source for random overrides, for deterministic
// tests. The default is the shared package-level source.
func WithRand(rng *rand.Rand) InjectorOption {
	return func(t *TestInjector) { t.rng = rng }
}

// NewTestInjector wraps child in an injector registered on board.
func NewTestInjector(board *blackboard.Blackboard, child behaviour.Node, opts ...InjectorOption) *TestInjector {
	t := &TestInjector{
		Decorator: New("test-injector", child, nil),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.client = board.Register(
		t.Name(), t.ID(),
		[]string{InjectionEnabledKey},
		[]string{InjectionEnabledKey},
	)
	// First come, first served: default the gate to disabled without
	// clobbering a setting another injector or the host already made.
	_ = t.client.Set(InjectionEnabledKey, false, false)
	return t
}

// SetOverride forces the injected status; it clears random mode.
func (t *TestInjector) SetOverride(status domain.Status) {
	t.fixed = &status
	t.random = false
}

// SetRandomOverride draws uniformly from SUCCESS, RUNNING and FAILURE,
// freshly every tick; it clears any fixed override.
func (t *TestInjector) SetRandomOverride() {
	t.random = true
	t.fixed = nil
}

// ClearOverride removes any local override. The global gate is
// untouched.
func (t *TestInjector) ClearOverride() {
	t.fixed = nil
	t.random = false
}

// GlobalEnable turns on injection for every injector sharing the
// blackboard.
func (t *TestInjector) GlobalEnable() {
	_ = t.client.Set(InjectionEnabledKey, true, true)
}

// GlobalDisable turns off injection for every injector sharing the
// blackboard.
func (t *TestInjector) GlobalDisable() {
	_ = t.client.Set(InjectionEnabledKey, false, true)
}

// OverrideEnabled reports whether this injector will substitute a
// status on the next tick: the global gate must be enabled and a local
// override set.
func (t *TestInjector) OverrideEnabled() bool {
	value, err := t.client.Get(InjectionEnabledKey)
	if err != nil {
		return false
	}
	enabled, _ := value.(bool)
	return enabled && (t.fixed != nil || t.random)
}

// Tick substitutes the override when enabled, skipping the child
// entirely; otherwise it ticks the child and forwards its status
// unchanged.
func (t *TestInjector) Tick(visit behaviour.VisitFunc) domain.Status {
	if !t.OverrideEnabled() {
		return t.Decorator.Tick(visit)
	}

	next := t.draw()
	t.SetMessage("injected " + string(next))
	t.SetStatus(next)
	if visit != nil {
		visit(t)
	}
	return next
}

func (t *TestInjector) draw() domain.Status {
	if t.fixed != nil {
		return *t.fixed
	}
	candidates := [...]domain.Status{
		domain.StatusSuccess,
		domain.StatusRunning,
		domain.StatusFailure,
	}
	if t.rng != nil {
		return candidates[t.rng.IntN(len(candidates))]
	}
	return candidates[rand.IntN(len(candidates))]
}
