package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rollcall/internal/settings"
	"rollcall/pkg/platform/sentinel"
)

// Postgres persists the settings singleton as the single row of
// attendance_settings. The primary key is a constant, so concurrent saves
// converge through ON CONFLICT instead of multiplying rows.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Get(ctx context.Context) (*settings.WindowSettings, error) {
	var out settings.WindowSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT start_time, end_time, departments, updated_at
		FROM attendance_settings
		WHERE id = TRUE`,
	).Scan(&out.Window.Start, &out.Window.End, pq.Array(&out.Departments), &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	return &out, nil
}

func (s *Postgres) Save(ctx context.Context, next *settings.WindowSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_settings (id, start_time, end_time, departments, updated_at)
		VALUES (TRUE, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    departments = EXCLUDED.departments,
		    updated_at = EXCLUDED.updated_at`,
		next.Window.Start, next.Window.End, pq.Array(next.Departments), next.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
