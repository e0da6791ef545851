package display_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/composite"
	"github.com/aretw0/arbor/pkg/decorator"
	"github.com/aretw0/arbor/pkg/display"
	"github.com/aretw0/arbor/pkg/tree"
)

func buildTree(t *testing.T) (*tree.BehaviourTree, *tree.SnapshotVisitor, *tree.CoverageVisitor) {
	t.Helper()

	root := composite.NewSequence("mission", []behaviour.Node{
		behaviour.NewSuccess("arm"),
		decorator.NewInverter(behaviour.NewFailure("no-abort")),
		behaviour.NewRunning("fly"),
	})

	snap := tree.NewSnapshotVisitor()
	cov := tree.NewCoverageVisitor()
	bt, err := tree.New(root, tree.WithVisitors(snap, cov))
	require.NoError(t, err)
	return bt, snap, cov
}

func TestTreeRendering(t *testing.T) {
	bt, _, _ := buildTree(t)
	require.NoError(t, bt.Tick())

	r := display.New(display.WithoutColor())
	out := r.Tree(bt.Root())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5, "one line per node")
	assert.Equal(t, "[-] mission [*]", strings.TrimRight(lines[0], " "))
	assert.Contains(t, lines[1], "--> arm [✓]")
	assert.Contains(t, lines[2], "[-] inverter [✓]")
	assert.Contains(t, lines[3], "--> no-abort [✗]")
	assert.Contains(t, lines[4], "--> fly [*]")

	// Indentation mirrors depth.
	assert.True(t, strings.HasPrefix(lines[1], "    "))
	assert.True(t, strings.HasPrefix(lines[3], "        "))
}

func TestTreeWithSnapshot(t *testing.T) {
	bt, snap, _ := buildTree(t)
	require.NoError(t, bt.Tick())

	r := display.New(display.WithoutColor())
	out := r.TreeWithSnapshot(bt.Root(), snap.Visited(), snap.PreviouslyVisited())

	assert.Contains(t, out, "arm [✓]")
	assert.Contains(t, out, "fly [*]")
}

func TestCoverageTree(t *testing.T) {
	bt, _, cov := buildTree(t)
	require.NoError(t, bt.Tick())

	r := display.New(display.WithoutColor())
	out := r.CoverageTree(bt.Root(), cov)

	assert.Contains(t, out, "arm  ticks=1 Srf", "only SUCCESS observed so far")
	assert.Contains(t, out, "fly  ticks=1 sRf")
	assert.Contains(t, out, "no-abort  ticks=1 srF")
}

func TestCoverageSummaryLine(t *testing.T) {
	line := display.CoverageSummaryLine(tree.CoverageSummary{
		Nodes: 2, Complete: 1, Observed: 4, Possible: 6,
	})
	assert.Equal(t, "coverage: 4/6 outcomes observed (67%), 1/2 nodes complete", line)
}

func TestGenerateMermaid(t *testing.T) {
	bt, snap, _ := buildTree(t)
	require.NoError(t, bt.Tick())

	out := display.GenerateMermaid(bt.Root(), &display.MermaidOverlay{Visited: snap.Visited()})

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `"mission"`)
	assert.Contains(t, out, `"no-abort"`)
	assert.Contains(t, out, "-->")
	assert.Contains(t, out, "classDef success")
	assert.Contains(t, out, "class n_")
}

func TestGenerateMermaidWithoutOverlay(t *testing.T) {
	out := display.GenerateMermaid(behaviour.NewSuccess("solo"), nil)
	assert.NotContains(t, out, "classDef")
}
