package display

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

// MermaidOverlay carries dynamic state to highlight on the graph.
type MermaidOverlay struct {
	Visited map[uuid.UUID]domain.Status
}

// GenerateMermaid produces a Mermaid flowchart from the tree rooted at
// root. Composites render as rectangles, decorators as subroutines and
// leaves as stadiums. Overlay styles mark the last tick's path, colour
// coded by the status each node returned.
func GenerateMermaid(root behaviour.Node, overlay *MermaidOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	behaviour.Walk(root, func(n behaviour.Node) {
		safeID := sanitizeMermaidID(n.ID())

		opener, closer := "([", "])"
		switch len(n.Children()) {
		case 0:
		case 1:
			opener, closer = "[[", "]]"
		default:
			opener, closer = "[", "]"
		}

		// Escape double quotes in names for Mermaid labels.
		safeName := strings.ReplaceAll(n.Name(), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, safeName, closer))

		for _, child := range n.Children() {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(child.ID())))
		}
	})

	if overlay != nil && len(overlay.Visited) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef success fill:#dcfce7,stroke:#16a34a,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failure fill:#fee2e2,stroke:#dc2626,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef running fill:#fef9c3,stroke:#ca8a04,stroke-width:4px,color:#000;\n")

		behaviour.Walk(root, func(n behaviour.Node) {
			status, ok := overlay.Visited[n.ID()]
			if !ok {
				return
			}
			var class string
			switch status {
			case domain.StatusSuccess:
				class = "success"
			case domain.StatusFailure:
				class = "failure"
			case domain.StatusRunning:
				class = "running"
			default:
				return
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(n.ID()), class))
		})
	}

	return sb.String()
}

func sanitizeMermaidID(id uuid.UUID) string {
	return "n_" + strings.ReplaceAll(id.String(), "-", "_")
}
