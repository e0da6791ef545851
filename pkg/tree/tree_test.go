package tree_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/composite"
	"github.com/aretw0/arbor/pkg/decorator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
)

func TestNewNilRoot(t *testing.T) {
	_, err := tree.New(nil)
	assert.ErrorIs(t, err, tree.ErrNilRoot)
}

func TestTickDrivesRootAndCounts(t *testing.T) {
	root := composite.NewSequence("root", []behaviour.Node{
		behaviour.NewSuccess("a"),
		behaviour.NewRunning("b"),
	})
	bt, err := tree.New(root)
	require.NoError(t, err)

	require.NoError(t, bt.Tick())
	require.NoError(t, bt.Tick())

	assert.Equal(t, 2, bt.Count())
	assert.Equal(t, domain.StatusRunning, root.Status())
}

func TestHandlersFireAroundTick(t *testing.T) {
	root := behaviour.NewSuccess("leaf")
	bt, err := tree.New(root)
	require.NoError(t, err)

	var order []string
	bt.AddPreTickHandler(func(*tree.BehaviourTree) { order = append(order, "pre") })
	bt.AddPostTickHandler(func(bt *tree.BehaviourTree) {
		order = append(order, "post")
		assert.Equal(t, 1, bt.Count(), "count already advanced in post-tick")
	})

	require.NoError(t, bt.Tick())
	assert.Equal(t, []string{"pre", "post"}, order)
}

func TestVisitorsSeePostOrderTraversal(t *testing.T) {
	root := composite.NewSequence("root", []behaviour.Node{
		decorator.NewInverter(behaviour.NewFailure("inner")),
		behaviour.NewSuccess("tail"),
	})
	bt, err := tree.New(root)
	require.NoError(t, err)

	var visited []string
	bt.AddVisitor(visitorFunc(func(n behaviour.Node) { visited = append(visited, n.Name()) }))

	require.NoError(t, bt.Tick())
	assert.Equal(t, []string{"inner", "inverter", "tail", "root"}, visited)
}

// visitorFunc adapts a function to the Visitor interface.
type visitorFunc func(behaviour.Node)

func (visitorFunc) Initialise()               {}
func (f visitorFunc) Visit(n behaviour.Node) { f(n) }

func TestAssertionViolationSurfacesAsError(t *testing.T) {
	root := composite.NewSequence("root", []behaviour.Node{
		behaviour.NewSuccess("ok"),
		decorator.NewAssertNever(behaviour.NewFailure("bad"), domain.StatusFailure),
		behaviour.NewSuccess("never-reached"),
	})
	bt, err := tree.New(root)
	require.NoError(t, err)

	err = bt.Tick()
	var violation *domain.AssertionViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "bad", violation.NodeName)
	assert.Equal(t, 0, bt.Count(), "aborted tick does not count")
}

func TestForeignPanicNotSwallowed(t *testing.T) {
	root := behaviour.FromFunc("boom", func(*behaviour.Behaviour) domain.Status {
		panic("unrelated")
	})
	bt, err := tree.New(root)
	require.NoError(t, err)

	assert.Panics(t, func() { _ = bt.Tick() })
}

func TestSnapshotVisitorDiffsTicks(t *testing.T) {
	flaky := behaviour.NewSuccessEveryN("flaky", 2)
	tail := behaviour.NewRunning("tail")
	root := composite.NewSequence("root", []behaviour.Node{flaky, tail})

	snap := tree.NewSnapshotVisitor()
	bt, err := tree.New(root, tree.WithVisitors(snap))
	require.NoError(t, err)

	// Tick 1: flaky fails, tail never reached.
	require.NoError(t, bt.Tick())
	assert.Contains(t, snap.Visited(), flaky.ID())
	assert.NotContains(t, snap.Visited(), tail.ID())

	// Tick 2: flaky succeeds, tail runs; tick 1's set rolled over.
	require.NoError(t, bt.Tick())
	assert.Contains(t, snap.Visited(), tail.ID())
	assert.Contains(t, snap.PreviouslyVisited(), flaky.ID())
	assert.NotContains(t, snap.PreviouslyVisited(), tail.ID())
	assert.Equal(t, domain.StatusSuccess, snap.Visited()[flaky.ID()])
}

func TestCoverageVisitorAccumulates(t *testing.T) {
	// Period 2 rotates RUNNING -> SUCCESS -> FAILURE, so 20 ticks show
	// every outcome at the leaf and the root alike.
	leaf := behaviour.NewPeriodic("rotor", 2)
	root := composite.NewSequence("root", []behaviour.Node{leaf})

	cov := tree.NewCoverageVisitor()
	bt, err := tree.New(root, tree.WithVisitors(cov))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, bt.Tick())
	}

	assert.Equal(t, 20, cov.Ticks(leaf.ID()))
	for _, s := range []domain.Status{domain.StatusSuccess, domain.StatusRunning, domain.StatusFailure} {
		assert.True(t, cov.Observed(leaf.ID(), s), "leaf observed %s", s)
	}

	report := cov.Report(root)
	require.Len(t, report, 2)
	assert.Equal(t, "root", report[0].Name, "report is parent-first")
	assert.True(t, report[0].Complete())
	assert.True(t, report[1].Complete())

	summary := cov.Summary(root)
	assert.Equal(t, tree.CoverageSummary{Nodes: 2, Complete: 2, Observed: 6, Possible: 6}, summary)
	assert.Equal(t, 1.0, summary.Ratio())
}

func TestCoverageSummaryPartial(t *testing.T) {
	leaf := behaviour.NewSuccess("steady")
	cov := tree.NewCoverageVisitor()
	bt, err := tree.New(leaf, tree.WithVisitors(cov))
	require.NoError(t, err)
	require.NoError(t, bt.Tick())

	summary := cov.Summary(leaf)
	assert.Equal(t, tree.CoverageSummary{Nodes: 1, Complete: 0, Observed: 1, Possible: 3}, summary)
	assert.InDelta(t, 1.0/3.0, summary.Ratio(), 1e-9)
}

func TestTickTock(t *testing.T) {
	t.Run("runs the requested number of ticks", func(t *testing.T) {
		bt, err := tree.New(behaviour.NewRunning("leaf"))
		require.NoError(t, err)

		err = bt.TickTock(context.Background(), time.Millisecond, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, bt.Count())
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		bt, err := tree.New(behaviour.NewRunning("leaf"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = bt.TickTock(ctx, time.Millisecond, -1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("stops on assertion violation", func(t *testing.T) {
		root := decorator.NewAssertNever(behaviour.NewFailure("bad"), domain.StatusFailure)
		bt, err := tree.New(root)
		require.NoError(t, err)

		err = bt.TickTock(context.Background(), time.Millisecond, 10)
		var violation *domain.AssertionViolationError
		assert.ErrorAs(t, err, &violation)
	})
}

func TestCoverageWithInjectedFaults(t *testing.T) {
	board := blackboard.New()

	first := behaviour.NewSuccess("arm")
	second := behaviour.NewSuccess("takeoff")
	flaky := decorator.NewTestInjector(board, behaviour.NewSuccess("deliver"))
	root := composite.NewSequence("mission", []behaviour.Node{first, second, flaky})

	cov := tree.NewCoverageVisitor()
	bt, err := tree.New(root, tree.WithVisitors(cov))
	require.NoError(t, err)

	for i := 1; i <= 20; i++ {
		switch i {
		case 3:
			flaky.GlobalEnable()
			flaky.SetOverride(domain.StatusFailure)
		case 5:
			flaky.SetOverride(domain.StatusSuccess)
		}
		require.NoError(t, bt.Tick())
	}

	assert.True(t, cov.Observed(flaky.ID(), domain.StatusSuccess))
	assert.True(t, cov.Observed(flaky.ID(), domain.StatusFailure))
	for _, leaf := range []behaviour.Node{first, second} {
		assert.True(t, cov.Observed(leaf.ID(), domain.StatusSuccess))
		assert.False(t, cov.Observed(leaf.ID(), domain.StatusFailure))
		assert.False(t, cov.Observed(leaf.ID(), domain.StatusRunning))
	}
}

// The flight test scenario: five workload leaves wrapped in injectors
// under one sequence, flipped into injection mid-flight.
func TestInjectedSequenceScenario(t *testing.T) {
	board := blackboard.New()

	leaves := []behaviour.Node{
		behaviour.NewSuccess("arm"),
		behaviour.NewSuccess("takeoff"),
		behaviour.NewRunning("cruise"),
		behaviour.NewFailure("deliver"),
		behaviour.NewSuccess("land"),
	}
	injectors := make([]*decorator.TestInjector, len(leaves))
	children := make([]behaviour.Node, len(leaves))
	for i, leaf := range leaves {
		injectors[i] = decorator.NewTestInjector(board, leaf)
		children[i] = injectors[i]
	}
	root := composite.NewSequence("mission", children)

	bt, err := tree.New(root)
	require.NoError(t, err)

	// Gate disabled: the third leaf holds the sequence RUNNING.
	require.NoError(t, bt.Tick())
	assert.Equal(t, domain.StatusRunning, root.Status())
	assert.Equal(t, domain.StatusInvalid, children[3].Status())

	// Force the cruise leg to succeed; the real deliver leg now fails
	// the mission, and land is never ticked.
	injectors[2].GlobalEnable()
	injectors[2].SetOverride(domain.StatusSuccess)

	require.NoError(t, bt.Tick())
	assert.Equal(t, domain.StatusFailure, root.Status())
	assert.Equal(t, domain.StatusSuccess, children[2].Status())
	assert.Equal(t, domain.StatusFailure, children[3].Status())
	assert.Equal(t, domain.StatusInvalid, children[4].Status())
}
