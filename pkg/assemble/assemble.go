// Package assemble builds behaviour trees from declarative YAML
// documents. Node kinds are resolved through a registry, so hosts can
// mix the built-in library with their own behaviours.
package assemble

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/tree"
)

// NodeSpec describes one node of a tree document. Kind selects the
// builder; any further keys are kind-specific configuration.
type NodeSpec struct {
	Kind     string         `yaml:"kind"`
	Name     string         `yaml:"name"`
	Children []NodeSpec     `yaml:"children"`
	Child    *NodeSpec      `yaml:"child"`
	Config   map[string]any `yaml:",inline"`
}

// TreeSpec is the root document.
type TreeSpec struct {
	Root NodeSpec `yaml:"root"`
}

// Parse decodes a YAML tree document.
func Parse(data []byte) (*TreeSpec, error) {
	var spec TreeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if spec.Root.Kind == "" {
		return nil, fmt.Errorf("tree document has no root node")
	}
	return &spec, nil
}

// Assembler turns tree documents into runnable trees, wiring blackboard
// behaviours to one shared board.
type Assembler struct {
	board    *blackboard.Blackboard
	registry *registry.Registry
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRegistry injects a custom registry, bypassing the built-in node
// kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Assembler) { a.registry = r }
}

// New creates an assembler over board with the built-in node kinds
// registered.
func New(board *blackboard.Blackboard, opts ...Option) *Assembler {
	a := &Assembler{board: board}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = defaultRegistry()
	}
	return a
}

// Registry exposes the assembler's registry so hosts can add kinds.
func (a *Assembler) Registry() *registry.Registry { return a.registry }

// Root builds just the root node of spec, leaving driver construction
// to the caller.
func (a *Assembler) Root(spec *TreeSpec) (behaviour.Node, error) {
	return a.node(spec.Root)
}

// Assemble builds the tree described by spec.
func (a *Assembler) Assemble(spec *TreeSpec, opts ...tree.Option) (*tree.BehaviourTree, error) {
	root, err := a.node(spec.Root)
	if err != nil {
		return nil, err
	}
	return tree.New(root, opts...)
}

// AssembleYAML parses and builds in one step.
func (a *Assembler) AssembleYAML(data []byte, opts ...tree.Option) (*tree.BehaviourTree, error) {
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return a.Assemble(spec, opts...)
}

// node recursively builds a spec: children first, then the node itself
// through the registry.
func (a *Assembler) node(spec NodeSpec) (behaviour.Node, error) {
	var children []behaviour.Node
	if spec.Child != nil {
		child, err := a.node(*spec.Child)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	for _, childSpec := range spec.Children {
		child, err := a.node(childSpec)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	config := spec.Config
	if config == nil {
		config = map[string]any{}
	}
	if spec.Name != "" {
		config["name"] = spec.Name
	}

	built, err := a.registry.Build(spec.Kind, a.board, config, children)
	if err != nil {
		return nil, fmt.Errorf("node %q (kind %s): %w", spec.Name, spec.Kind, err)
	}
	return built, nil
}
