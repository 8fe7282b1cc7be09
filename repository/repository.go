/*
Package repository defines the narrow contract the scheduling core needs
from storage. The core never implements this interface; it only consumes
it.

PURPOSE:
  Deliberately narrow: enumerate departments, fetch people and tasks
  scoped to a department and date range, and read/write PTO records.
  Nothing about assignments or solve results lives here — those are
  values the core produces and hands back to the caller; persisting them
  is the caller's business, not this interface's.

SEE ALSO:
  - repository/sqlite: the concrete SQLite-backed implementation
*/
package repository

import (
	"context"

	"github.com/warp/shift-scheduler/core"
)

// PTOStatus is the approval state of a PTO record.
type PTOStatus string

const (
	PTOPending  PTOStatus = "pending"
	PTOApproved PTOStatus = "approved"
)

// Repository is the narrow contract the core depends on.
type Repository interface {
	// ListDepartments returns every known department name.
	ListDepartments(ctx context.Context) ([]string, error)

	// ListPeopleIn returns the people belonging to department.
	ListPeopleIn(ctx context.Context, department string) ([]core.Person, error)

	// ListTasksOverlapping returns every task whose active interval
	// intersects [start, end].
	ListTasksOverlapping(ctx context.Context, department string, start, end core.Day) ([]core.Task, error)

	// ReadPTO returns the PTO map for [start, end], restricted to records
	// in the PTOApproved state.
	ReadPTO(ctx context.Context, start, end core.Day) (core.PTOMap, error)

	// WritePTO idempotently upserts PTO records for personID across days,
	// keyed by (person, date).
	WritePTO(ctx context.Context, personID string, days []core.Day, status PTOStatus) error

	// DeletePTO idempotently removes PTO records for personID on days.
	DeletePTO(ctx context.Context, personID string, days []core.Day) error
}
