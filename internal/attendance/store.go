package attendance

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mocks.go -package=mocks

// Store is the persistence contract for the attendance ledger. The
// per-(employee, day) uniqueness invariant is enforced INSIDE the store:
// Insert must be atomic with the duplicate check, because concurrent requests
// may arrive on independent replicas sharing only the storage engine.
//
// Implementations return sentinel.ErrConflict when the uniqueness constraint
// rejects an insert and sentinel.ErrNotFound for missing single-record reads.
type Store interface {
	// Insert persists a new record. The record's day bucket is derived from
	// its Date; a record for the same employee and day must fail with
	// sentinel.ErrConflict without modifying the existing record.
	Insert(ctx context.Context, record *Record) error

	// FindByEmployeeAndDay returns the record for the day bucket starting at
	// dayStart, or sentinel.ErrNotFound.
	FindByEmployeeAndDay(ctx context.Context, employeeID string, dayStart time.Time) (*Record, error)

	// ListByEmployeeAndRange returns records whose day bucket falls between
	// firstDay and lastDay inclusive, ordered by date ascending.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, firstDay, lastDay time.Time) ([]*Record, error)

	// ListByEmployee returns all records for one employee, date ascending.
	ListByEmployee(ctx context.Context, employeeID string) ([]*Record, error)

	// ListAll returns every record, date ascending.
	ListAll(ctx context.Context) ([]*Record, error)

	// DeleteByEmployee removes all records for an employee. Used only as the
	// cascade of an employee deletion; there is no single-record delete.
	DeleteByEmployee(ctx context.Context, employeeID string) (int, error)
}
