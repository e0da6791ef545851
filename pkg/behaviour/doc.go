// Package behaviour defines the Node contract, the base Behaviour leaf
// with its initialise/update/terminate lifecycle, and a library of
// fundamental leaves, including the blackboard behaviours.
package behaviour
