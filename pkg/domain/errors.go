package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrKeyNotFound is returned when a blackboard key (or a nested field of
// its value) does not exist. Leaves recover from it locally, translating
// it into FAILURE or RUNNING; it never surfaces from a tick.
var ErrKeyNotFound = errors.New("blackboard key not found")

// ErrPermissionDenied is returned when a client touches a key outside
// its registered read or write set. This is a configuration error and is
// always fatal to the calling store operation.
var ErrPermissionDenied = errors.New("blackboard permission denied")

// ErrAlreadyExists is returned by a non-overwriting set on a key that
// already holds a value.
var ErrAlreadyExists = errors.New("blackboard key already exists")

// AssertionViolationError signals that an assertion decorator observed a
// forbidden status. It marks a contract breach in tree construction or
// behaviour logic, not a recoverable runtime condition, and is the only
// failure that escapes a tick.
type AssertionViolationError struct {
	NodeID   uuid.UUID
	NodeName string
	Status   Status
}

func (e *AssertionViolationError) Error() string {
	return fmt.Sprintf("assertion violated: node %q produced forbidden status %s", e.NodeName, e.Status)
}
