package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rollcall/internal/directory"
	"rollcall/pkg/platform/sentinel"
)

const (
	employeeColumns = `employee_id, first_name, last_name, username, email, department, roles, status, password_hash, created_at`

	uniqueViolation = "23505"
)

// Postgres backs the directory with an employees table. The EMP### sequence
// rides the employee_seq database sequence so concurrent creates never
// collide.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, e *directory.Employee) error {
	var seq int
	if err := s.db.QueryRowContext(ctx, `SELECT nextval('employee_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("allocating employee id: %w", err)
	}
	e.EmployeeID = directory.FormatEmployeeID(seq)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`,
		e.EmployeeID, e.FirstName, e.LastName, e.Username, e.Email,
		e.Department, pq.Array(e.Roles), e.Status, e.PasswordHash,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting employee: %w", err)
	}
	return nil
}

func (s *Postgres) FindByEmployeeID(ctx context.Context, employeeID string) (*directory.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID)
	return scanEmployee(row)
}

func (s *Postgres) FindByLogin(ctx context.Context, login string) (*directory.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)`, login)
	return scanEmployee(row)
}

func (s *Postgres) List(ctx context.Context) ([]*directory.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+employeeColumns+` FROM employees ORDER BY employee_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []*directory.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateStatus(ctx context.Context, employeeID string, status directory.EmployeeStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET status = $2 WHERE employee_id = $1`, employeeID, status)
	if err != nil {
		return fmt.Errorf("updating employee status: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, employeeID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM employees WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanEmployee(row interface{ Scan(...any) error }) (*directory.Employee, error) {
	var e directory.Employee
	err := row.Scan(
		&e.EmployeeID, &e.FirstName, &e.LastName, &e.Username, &e.Email,
		&e.Department, pq.Array(&e.Roles), &e.Status, &e.PasswordHash, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning employee: %w", err)
	}
	return &e, nil
}
