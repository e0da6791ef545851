/*
Package arbor is a behaviour tree engine for scripting the decision
layer of autonomous systems: robots, simulated agents, and long-running
control loops.

It separates the tree structure (composites, decorators, leaves) from
shared data (the permissioned blackboard) and from execution (the tick
driver). Ticks are cooperative and single threaded: one tick evaluates
the tree depth first, runs each visited node's lifecycle, and settles
every status before the next tick begins.

# Concept

A tree is built from leaves that do the work, composites that arbitrate
between children (Sequence, Selector), and decorators that reshape a
single child's outcome. Every node settles on one of four statuses per
tick: SUCCESS, FAILURE, RUNNING, or INVALID for nodes off the active
path. Data flows through a blackboard with per-client read and write
permissions, so a behaviour can only touch the keys it declared.

# Key Features

  - Deterministic ticks: the same tree and blackboard produce the same
    traversal, which makes trees testable.
  - Test injection: wrap any subtree in a TestInjector and force its
    outcome at runtime through a blackboard toggle, without touching
    the tree.
  - Coverage: visitors record which outcomes each node has produced, so
    a test campaign can prove it exercised every path.
  - Introspection: render trees to the terminal, export Mermaid graphs,
    serve status and blackboard contents over HTTP, and publish
    Prometheus metrics.

# Usage

Build a root node, wrap it in an Engine, and tick it:

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/arbor"
		"github.com/aretw0/arbor/pkg/behaviour"
		"github.com/aretw0/arbor/pkg/composite"
	)

	func main() {
		root := composite.NewSequence("mission", []behaviour.Node{
			behaviour.NewSuccess("arm"),
			behaviour.NewRunning("fly"),
		})

		eng, err := arbor.New(root)
		if err != nil {
			log.Fatal(err)
		}

		if err := eng.Tick(); err != nil {
			log.Fatal(err)
		}
		fmt.Print(eng.Render())
	}

Trees can also be assembled from YAML documents, see FromYAML and the
assemble package.
*/
package arbor
