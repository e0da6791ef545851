// Package display renders behaviour trees for terminals and docs: an
// indented text tree with per-status colouring, a coverage overlay and
// a Mermaid flowchart export.
package display

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

var statusSymbol = map[domain.Status]string{
	domain.StatusSuccess: "✓",
	domain.StatusFailure: "✗",
	domain.StatusRunning: "*",
	domain.StatusInvalid: "-",
}

// Status colour scheme (green/red/amber, dim for invalid).
var statusColor = map[domain.Status]string{
	domain.StatusSuccess: "#22c55e",
	domain.StatusFailure: "#ef4444",
	domain.StatusRunning: "#eab308",
	domain.StatusInvalid: "#6b7280",
}

// Renderer draws trees as indented text. The zero value renders without
// colour; use New for terminal-aware colouring.
type Renderer struct {
	profile termenv.Profile
	color   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile forces a specific termenv colour profile.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
		r.color = p != termenv.Ascii
	}
}

// WithoutColor disables colouring regardless of terminal capabilities.
func WithoutColor() Option {
	return func(r *Renderer) { r.color = false }
}

// New creates a renderer using the detected terminal colour profile.
func New(opts ...Option) *Renderer {
	r := &Renderer{profile: termenv.ColorProfile()}
	r.color = r.profile != termenv.Ascii
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tree renders the tree rooted at root, one node per line. Composites
// and decorators get a bracket marker, leaves an arrow, and each node
// shows its current status symbol.
func (r *Renderer) Tree(root behaviour.Node) string {
	var sb strings.Builder
	r.node(&sb, root, 0, nil, nil)
	return sb.String()
}

// TreeWithSnapshot renders like Tree but dims nodes that were not
// visited on the last tick. Nodes visited the tick before (but not this
// one) keep their line without a status symbol, so a reader can see the
// active path move between ticks.
func (r *Renderer) TreeWithSnapshot(root behaviour.Node, visited, previouslyVisited map[uuid.UUID]domain.Status) string {
	var sb strings.Builder
	r.node(&sb, root, 0, visited, previouslyVisited)
	return sb.String()
}

func (r *Renderer) node(sb *strings.Builder, n behaviour.Node, depth int, visited, previouslyVisited map[uuid.UUID]domain.Status) {
	indent := strings.Repeat("    ", depth)
	marker := "--> "
	if len(n.Children()) > 0 {
		marker = "[-] "
	}

	line := indent + marker + n.Name()
	status := n.Status()

	switch {
	case visited == nil:
		line += " [" + statusSymbol[status] + "]"
		line = r.paint(line, statusColor[status])
	default:
		if s, ok := visited[n.ID()]; ok {
			line += " [" + statusSymbol[s] + "]"
			line = r.paint(line, statusColor[s])
		} else if _, ok := previouslyVisited[n.ID()]; !ok {
			// Never on the active path; dim it.
			line = r.paint(line, statusColor[domain.StatusInvalid])
		}
	}

	if msg := n.Message(); msg != "" {
		line += r.paint(fmt.Sprintf(" -- %s", msg), statusColor[domain.StatusInvalid])
	}

	sb.WriteString(line)
	sb.WriteString("\n")
	for _, child := range n.Children() {
		r.node(sb, child, depth+1, visited, previouslyVisited)
	}
}

func (r *Renderer) paint(s, hex string) string {
	if !r.color {
		return s
	}
	return termenv.String(s).Foreground(r.profile.Color(hex)).String()
}
