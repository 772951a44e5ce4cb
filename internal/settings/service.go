package settings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/audit"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// AuditPublisher emits settings-change events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns the organization settings. It also implements the attendance
// module's SettingsProvider, feeding the window and department set into every
// mark decision.
type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current settings. An unconfigured system is a configuration
// error: attendance must not be admitted under an undefined window.
func (s *Service) Get(ctx context.Context) (*WindowSettings, error) {
	stored, err := s.store.Get(ctx)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeConfiguration, "attendance settings not configured")
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetching settings")
	}
}

// Save validates and replaces the settings. Validation failures never touch
// the stored value.
func (s *Service) Save(ctx context.Context, next WindowSettings) (*WindowSettings, error) {
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, &next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "saving settings")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionSettingsUpdated,
			ActorID:   requestcontext.EmployeeID(ctx),
			ClientIP:  requestcontext.ClientIP(ctx),
			RequestID: requestcontext.RequestID(ctx),
		})
	}
	s.logger.InfoContext(ctx, "settings updated",
		"request_id", requestcontext.RequestID(ctx),
		"window_start", next.Window.Start,
		"window_end", next.Window.End,
		"departments", len(next.Departments),
	)
	return &next, nil
}

// WindowConfig adapts the stored settings to the attendance module's view.
func (s *Service) WindowConfig(ctx context.Context) (attendance.WindowConfig, error) {
	stored, err := s.Get(ctx)
	if err != nil {
		return attendance.WindowConfig{}, err
	}
	return attendance.WindowConfig{
		Window:      stored.Window,
		Departments: stored.Departments,
	}, nil
}
