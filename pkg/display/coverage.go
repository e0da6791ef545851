package display

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
)

// CoverageTree renders the tree with, per node, its tick count and
// which of the three tickable outcomes have been observed. Missing
// outcomes show as lowercase placeholders so gaps stand out.
func (r *Renderer) CoverageTree(root behaviour.Node, v *tree.CoverageVisitor) string {
	rows := make(map[string]tree.NodeCoverage)
	for _, row := range v.Report(root) {
		rows[row.ID.String()] = row
	}

	var sb strings.Builder
	var walk func(n behaviour.Node, depth int)
	walk = func(n behaviour.Node, depth int) {
		indent := strings.Repeat("    ", depth)
		marker := "--> "
		if len(n.Children()) > 0 {
			marker = "[-] "
		}
		row := rows[n.ID().String()]

		line := fmt.Sprintf("%s%s%s  ticks=%d %s", indent, marker, n.Name(), row.Ticks, outcomes(row))
		if row.Complete() {
			line = r.paint(line, statusColor[domain.StatusSuccess])
		} else if row.Ticks == 0 {
			line = r.paint(line, statusColor[domain.StatusFailure])
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		for _, child := range n.Children() {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return sb.String()
}

func outcomes(row tree.NodeCoverage) string {
	mark := func(observed bool, yes, no string) string {
		if observed {
			return yes
		}
		return no
	}
	return mark(row.Success, "S", "s") + mark(row.Running, "R", "r") + mark(row.Failure, "F", "f")
}

// CoverageSummaryLine formats the tree-wide completeness metric.
func CoverageSummaryLine(s tree.CoverageSummary) string {
	return fmt.Sprintf("coverage: %d/%d outcomes observed (%.0f%%), %d/%d nodes complete",
		s.Observed, s.Possible, s.Ratio()*100, s.Complete, s.Nodes)
}
