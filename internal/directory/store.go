package directory

import "context"

// Store persists employee records. Implementations return
// sentinel.ErrNotFound for missing employees and sentinel.ErrConflict when a
// username or email is already taken; ID assignment (EMP### sequence) is the
// store's responsibility so concurrent creates cannot race on the counter.
type Store interface {
	Create(ctx context.Context, e *Employee) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	// FindByLogin matches the username or the email, case-insensitively.
	FindByLogin(ctx context.Context, login string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	UpdateStatus(ctx context.Context, employeeID string, status EmployeeStatus) error
	Delete(ctx context.Context, employeeID string) error
}
