package engine

import (
	"errors"
	"fmt"

	"github.com/calderos/hollowdeep/action"
)

// Recoverable execution failures. The executor maps each of these to a
// short reschedule delay; none of them escapes a scheduler pass.
var (
	// ErrInvalidTarget means the action had no valid occupant or
	// destination (attacking empty air, moving into the void).
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInsufficientResources means the actor cannot pay the action's
	// cost right now.
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrActionBlocked means a rule prevented the action (wall in the
	// way, terrain unwalkable).
	ErrActionBlocked = errors.New("action blocked")

	// ErrQueueFull means a schedule push exceeded the configured
	// capacity.
	ErrQueueFull = errors.New("schedule queue full")
)

// RetryError asks the executor to re-attempt immediately with a
// replacement action. Bump-attack conversion is the canonical producer:
// a move into an occupied tile comes back as Retry(Attack).
type RetryError struct {
	Replacement action.Action
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry as %s", e.Replacement)
}

// failureDelay maps a recoverable failure to its reschedule delay in
// turn-time units. Unknown errors return ok=false and are treated as
// unrecoverable by the caller.
func failureDelay(err error) (uint64, bool) {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		return 50, true
	case errors.Is(err, ErrInsufficientResources):
		return 100, true
	case errors.Is(err, ErrActionBlocked):
		return 25, true
	default:
		return 0, false
	}
}
