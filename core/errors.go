/*
errors.go - Error taxonomy for the scheduling core.

PURPOSE:
  Four kinds of failure, none of them exceptions-as-control-flow:
  InvalidInput, Infeasible, RepositoryFailure, Cancelled. Infeasible is a
  normal return value (a HorizonSchedule with Feasible=false, or an
  admission result with Feasible=false) — it is never represented as an error
  value. The other three are.

USAGE:
  if errors.Is(err, core.ErrCancelled) { ... }

  var ii *core.InvalidInputError
  if errors.As(err, &ii) { ... }

SEE ALSO:
  - solver/daysolver.go: returns deficits, not errors, on infeasibility
  - repository/: RepositoryFailure originates here
*/
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors, for use with errors.Is().
var (
	// ErrCancelled is returned when a caller-supplied cancellation signal
	// is seen at a check between day iterations (or between the weeks of
	// an admission check). A single day's backtracking search is not
	// interrupted.
	ErrCancelled = errors.New("solve cancelled")

	// ErrRepositoryFailure is returned when the external repository could
	// not satisfy a read or write. The core never retries; retry policy
	// belongs to the facade.
	ErrRepositoryFailure = errors.New("repository failure")
)

// InvalidInputError carries details about a malformed Person/Task/PlanStore
// payload, a missing required field, a non-positive requirement count, or
// an unparseable date. Never retried by the core.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid input (%s): %s", e.Field, e.Message)
}

// RepositoryFailureError wraps an underlying repository error with the
// operation that failed.
type RepositoryFailureError struct {
	Operation string
	Err       error
}

func (e *RepositoryFailureError) Error() string {
	return fmt.Sprintf("repository failure during %s: %v", e.Operation, e.Err)
}

func (e *RepositoryFailureError) Unwrap() error { return ErrRepositoryFailure }

// IsInvalidInput returns true if err represents malformed caller input.
func IsInvalidInput(err error) bool {
	var ii *InvalidInputError
	return errors.As(err, &ii)
}

// IsRepositoryFailure returns true if err originated in the repository
// layer.
func IsRepositoryFailure(err error) bool {
	return errors.Is(err, ErrRepositoryFailure)
}

// IsCancelled returns true if err represents cooperative cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
