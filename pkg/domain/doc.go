// Package domain holds the core value types shared by every layer of
// the engine: the four-value Status lattice, clearing policies for
// check-style behaviours, and the blackboard error set.
package domain
