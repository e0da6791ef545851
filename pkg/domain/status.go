package domain

// Status is the outcome a node settles on each tick.
type Status string

const (
	// StatusInvalid marks a node outside any active cycle: never ticked,
	// or cancelled by a parent. It is not a tick outcome.
	StatusInvalid Status = "INVALID"
	// StatusRunning means the node has pending work and wants to be
	// ticked again.
	StatusRunning Status = "RUNNING"
	// StatusSuccess means the node completed its work.
	StatusSuccess Status = "SUCCESS"
	// StatusFailure means the node could not complete its work. Failure
	// is a valid domain outcome, not an error.
	StatusFailure Status = "FAILURE"
)

// Terminal reports whether the status ends a cycle.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// ClearingPolicy controls when a checking behaviour discards its cached
// match result.
type ClearingPolicy string

const (
	// ClearOnInitialise discards the cache every time the behaviour
	// enters a fresh cycle. The default.
	ClearOnInitialise ClearingPolicy = "ON_INITIALISE"
	// ClearOnSuccess discards the cache whenever a fresh evaluation
	// succeeds, so success is always re-verified.
	ClearOnSuccess ClearingPolicy = "ON_SUCCESS"
	// ClearNever keeps the first cached result until the behaviour is
	// invalidated by a parent.
	ClearNever ClearingPolicy = "NEVER"
)
