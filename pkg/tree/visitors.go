package tree

import (
	"github.com/google/uuid"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// Visitor observes a tick. Initialise fires once before each tick,
// Visit once per visited node in traversal order.
type Visitor interface {
	Initialise()
	Visit(n behaviour.Node)
}

// SnapshotVisitor keeps the set of nodes visited this tick and the set
// from the previous tick. Renderers diff the two to draw only what
// changed.
type SnapshotVisitor struct {
	visited           map[uuid.UUID]domain.Status
	previouslyVisited map[uuid.UUID]domain.Status
}

var _ Visitor = (*SnapshotVisitor)(nil)

// NewSnapshotVisitor creates an empty snapshot visitor.
func NewSnapshotVisitor() *SnapshotVisitor {
	return &SnapshotVisitor{
		visited:           make(map[uuid.UUID]domain.Status),
		previouslyVisited: make(map[uuid.UUID]domain.Status),
	}
}

// Initialise rolls the current visited set into the previous one.
func (v *SnapshotVisitor) Initialise() {
	v.previouslyVisited = v.visited
	v.visited = make(map[uuid.UUID]domain.Status)
}

// Visit records the node's id and status for this tick.
func (v *SnapshotVisitor) Visit(n behaviour.Node) {
	v.visited[n.ID()] = n.Status()
}

// Visited returns the ids (and statuses) seen this tick.
func (v *SnapshotVisitor) Visited() map[uuid.UUID]domain.Status {
	return v.visited
}

// PreviouslyVisited returns the ids seen on the previous tick.
func (v *SnapshotVisitor) PreviouslyVisited() map[uuid.UUID]domain.Status {
	return v.previouslyVisited
}

// CoverageVisitor accumulates, for the visitor's own lifetime, how
// often each node has been ticked and which statuses it has ever
// produced. The record is purely additive; reset by discarding the
// visitor and creating a new one.
type CoverageVisitor struct {
	ticks map[uuid.UUID]int
	seen  map[uuid.UUID]map[domain.Status]bool
}

var _ Visitor = (*CoverageVisitor)(nil)

// NewCoverageVisitor creates an empty coverage visitor.
func NewCoverageVisitor() *CoverageVisitor {
	return &CoverageVisitor{
		ticks: make(map[uuid.UUID]int),
		seen:  make(map[uuid.UUID]map[domain.Status]bool),
	}
}

// Initialise is a no-op; coverage accumulates across ticks.
func (v *CoverageVisitor) Initialise() {}

// Visit bumps the node's tick count and marks its status as observed.
func (v *CoverageVisitor) Visit(n behaviour.Node) {
	id := n.ID()
	v.ticks[id]++
	statuses, ok := v.seen[id]
	if !ok {
		statuses = make(map[domain.Status]bool)
		v.seen[id] = statuses
	}
	statuses[n.Status()] = true
}

// Ticks returns how often the node with id has been visited.
func (v *CoverageVisitor) Ticks(id uuid.UUID) int { return v.ticks[id] }

// Observed reports whether the node with id has ever produced status.
func (v *CoverageVisitor) Observed(id uuid.UUID, status domain.Status) bool {
	return v.seen[id][status]
}

// NodeCoverage is one node's row in a coverage report.
type NodeCoverage struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Ticks   int       `json:"ticks"`
	Success bool      `json:"success"`
	Running bool      `json:"running"`
	Failure bool      `json:"failure"`
}

// Complete reports whether all three tickable outcomes were observed.
func (c NodeCoverage) Complete() bool {
	return c.Success && c.Running && c.Failure
}

// Report walks the tree rooted at root (pre-order, so parents precede
// children) and states, per node, which statuses have been observed.
func (v *CoverageVisitor) Report(root behaviour.Node) []NodeCoverage {
	var report []NodeCoverage
	behaviour.Walk(root, func(n behaviour.Node) {
		id := n.ID()
		report = append(report, NodeCoverage{
			ID:      id,
			Name:    n.Name(),
			Ticks:   v.ticks[id],
			Success: v.seen[id][domain.StatusSuccess],
			Running: v.seen[id][domain.StatusRunning],
			Failure: v.seen[id][domain.StatusFailure],
		})
	})
	return report
}

// CoverageSummary is the tree-wide completeness metric: the share of
// (node, status) pairs observed out of the three possible outcomes per
// node.
type CoverageSummary struct {
	Nodes    int `json:"nodes"`
	Complete int `json:"complete"`
	Observed int `json:"observed"`
	Possible int `json:"possible"`
}

// Ratio returns observed over possible, zero for an empty tree.
func (s CoverageSummary) Ratio() float64 {
	if s.Possible == 0 {
		return 0
	}
	return float64(s.Observed) / float64(s.Possible)
}

// Summary folds a report into the tree-wide metric.
func (v *CoverageVisitor) Summary(root behaviour.Node) CoverageSummary {
	var summary CoverageSummary
	for _, row := range v.Report(root) {
		summary.Nodes++
		summary.Possible += 3
		for _, observed := range []bool{row.Success, row.Running, row.Failure} {
			if observed {
				summary.Observed++
			}
		}
		if row.Complete() {
			summary.Complete++
		}
	}
	return summary
}
