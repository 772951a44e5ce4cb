package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rollcall/internal/attendance"
	"rollcall/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// Postgres persists the ledger in PostgreSQL. The one-record-per-employee-
// per-day invariant lives in the attendance_records unique index on
// (employee_id, day), never in an application-level check-then-insert,
// which would race between replicas.
type Postgres struct {
	db  *sql.DB
	loc *time.Location
}

// NewPostgres constructs a PostgreSQL-backed ledger store. Day buckets are
// computed in loc, the organization timezone.
func NewPostgres(db *sql.DB, loc *time.Location) *Postgres {
	return &Postgres{db: db, loc: loc}
}

func (s *Postgres) day(t time.Time) string {
	dayStart, _ := attendance.DayBucket(t, s.loc)
	return dayStart.Format("2006-01-02")
}

func (s *Postgres) Insert(ctx context.Context, record *attendance.Record) error {
	query := `
		INSERT INTO attendance_records (id, employee_id, name, department, status, date, day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Name,
		record.Department,
		string(record.Status),
		record.Date,
		s.day(record.Date),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

func (s *Postgres) FindByEmployeeAndDay(ctx context.Context, employeeID string, dayStart time.Time) (*attendance.Record, error) {
	query := `
		SELECT id, employee_id, name, department, status, date
		FROM attendance_records
		WHERE employee_id = $1 AND day = $2
	`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, employeeID, s.day(dayStart)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return record, nil
}

func (s *Postgres) ListByEmployeeAndRange(ctx context.Context, employeeID string, firstDay, lastDay time.Time) ([]*attendance.Record, error) {
	query := `
		SELECT id, employee_id, name, department, status, date
		FROM attendance_records
		WHERE employee_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, employeeID, s.day(firstDay), s.day(lastDay))
	if err != nil {
		return nil, fmt.Errorf("query attendance range: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Postgres) ListByEmployee(ctx context.Context, employeeID string) ([]*attendance.Record, error) {
	query := `
		SELECT id, employee_id, name, department, status, date
		FROM attendance_records
		WHERE employee_id = $1
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("query attendance by employee: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Postgres) ListAll(ctx context.Context) ([]*attendance.Record, error) {
	query := `
		SELECT id, employee_id, name, department, status, date
		FROM attendance_records
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all attendance: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Postgres) DeleteByEmployee(ctx context.Context, employeeID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("delete attendance by employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete attendance by employee: %w", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*attendance.Record, error) {
	var (
		record attendance.Record
		status string
	)
	if err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.Name,
		&record.Department,
		&status,
		&record.Date,
	); err != nil {
		return nil, err
	}
	record.Status = attendance.Status(status)
	return &record, nil
}

func scanRecords(rows *sql.Rows) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return out, nil
}
