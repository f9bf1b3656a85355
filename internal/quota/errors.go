package quota

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when planner inputs are out of range.
	ErrInvalidArgument = errors.New("quota: invalid argument")

	// ErrDeadlineTooFar is returned when no box count is defined for the
	// requested number of days.
	ErrDeadlineTooFar = errors.New("quota: deadline is more than 259 days away")

	// ErrInvariant marks a corrupted or inconsistent quota table.
	ErrInvariant = errors.New("quota: invariant violated")
)

// InvariantError describes which day of a table broke an invariant.
type InvariantError struct {
	DaysToGo int
	Reason   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("quota: invariant violated at days_to_go=%d: %s", e.DaysToGo, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
