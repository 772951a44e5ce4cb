package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rollcall/internal/attendance/metrics"
	"rollcall/internal/audit"
	"rollcall/internal/directory"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

const (
	decisionPathWindow   = "window"
	decisionPathOverride = "override"
)

// WindowConfig is the slice of the organization settings the ledger consults
// on every mark: the admission window plus the recognized departments.
type WindowConfig struct {
	Window      Window
	Departments []string
}

// SettingsProvider supplies the current window configuration.
type SettingsProvider interface {
	WindowConfig(ctx context.Context) (WindowConfig, error)
}

// EmployeeDirectory resolves submitters to active directory records.
type EmployeeDirectory interface {
	FindActive(ctx context.Context, employeeID string) (*directory.Employee, error)
}

// AuditPublisher emits ledger events onto the audit stream.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service is the attendance ledger: it admits marks through the configured
// window, derives or accepts the status, and appends to the store, relying on
// the store's uniqueness constraint for the one-mark-per-day guarantee.
type Service struct {
	store          Store
	settings       SettingsProvider
	directory      EmployeeDirectory
	loc            *time.Location
	storageTimeout time.Duration
	auditor        AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithStorageTimeout bounds the uniqueness-constrained insert; zero means the
// request context's own deadline applies.
func WithStorageTimeout(d time.Duration) Option {
	return func(s *Service) { s.storageTimeout = d }
}

// NewService constructs the ledger service. loc is the organization timezone
// that defines day-bucket boundaries and window comparisons.
func NewService(store Store, settings SettingsProvider, dir EmployeeDirectory, loc *time.Location, opts ...Option) *Service {
	s := &Service{
		store:     store,
		settings:  settings,
		directory: dir,
		loc:       loc,
		logger:    slog.Default(),
		tracer:    otel.Tracer("rollcall/attendance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mark records attendance for the current day. The decision order is fixed:
// the employee must be active, the department must be recognized, then either
// the manual override is accepted or the status is derived from the window.
// Present and Absent are always server-derived; a client asserting them gets
// the derived value instead.
func (s *Service) Mark(ctx context.Context, req MarkRequest) (*Record, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.Mark",
		trace.WithAttributes(attribute.String("employee_id", req.EmployeeID)))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveMarkLatency(time.Since(start)) }()

	if err := req.Validate(); err != nil {
		s.metrics.IncrementRejected("invalid_request")
		return nil, err
	}

	emp, err := s.directory.FindActive(ctx, req.EmployeeID)
	if err != nil {
		s.metrics.IncrementRejected("inactive_employee")
		s.emitRejection(ctx, req.EmployeeID, "employee not active")
		return nil, err
	}

	cfg, err := s.settings.WindowConfig(ctx)
	if err != nil {
		s.metrics.IncrementRejected("config")
		return nil, err
	}
	if !departmentKnown(cfg.Departments, req.Department) {
		s.metrics.IncrementRejected("bad_department")
		s.emitRejection(ctx, req.EmployeeID, "unknown department")
		return nil, dErrors.Newf(dErrors.CodeValidation, "department %q is not recognized", req.Department)
	}

	now := requestcontext.Now(ctx)

	status := req.Status
	path := decisionPathOverride
	if !status.IsManualOverride() {
		status, err = EvaluateWindow(now, cfg.Window, s.loc)
		if err != nil {
			s.metrics.IncrementRejected("config")
			s.logger.ErrorContext(ctx, "attendance window misconfigured",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			return nil, err
		}
		path = decisionPathWindow
	}

	name := req.Name
	if name == "" {
		name = emp.FullName()
	}

	record := &Record{
		ID:         uuid.New(),
		EmployeeID: req.EmployeeID,
		Name:       name,
		Department: req.Department,
		Status:     status,
		Date:       now,
	}

	if err := s.insert(ctx, record); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.metrics.IncrementRejected("duplicate")
			s.emitRejection(ctx, req.EmployeeID, "duplicate mark")
		}
		return nil, err
	}

	s.metrics.IncrementAccepted(string(status), path)
	s.emit(ctx, audit.Event{
		Action:     audit.ActionAttendanceMarked,
		EmployeeID: req.EmployeeID,
		Status:     string(status),
	})
	s.logger.InfoContext(ctx, "attendance marked",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", req.EmployeeID,
		"status", status,
		"path", path,
	)
	return record, nil
}

func (s *Service) insert(ctx context.Context, record *Record) error {
	if s.storageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storageTimeout)
		defer cancel()
	}
	err := s.store.Insert(ctx, record)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "attendance already marked for today")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "attendance storage timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "persisting attendance record")
	}
}

// ForDay returns the employee's record for the day containing at, if any.
func (s *Service) ForDay(ctx context.Context, employeeID string, at time.Time) (*Record, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}
	dayStart, _ := DayBucket(at, s.loc)
	record, err := s.store.FindByEmployeeAndDay(ctx, employeeID, dayStart)
	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeNotFound, "no attendance record for that day")
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetching attendance record")
	}
}

// ForRange returns the employee's records for day buckets between from and to
// inclusive, ordered by date ascending.
func (s *Service) ForRange(ctx context.Context, employeeID string, from, to time.Time) ([]*Record, error) {
	if err := s.authorizeRead(ctx, employeeID); err != nil {
		return nil, err
	}
	firstDay, _ := DayBucket(from, s.loc)
	lastDay, _ := DayBucket(to, s.loc)
	if lastDay.Before(firstDay) {
		return nil, dErrors.New(dErrors.CodeValidation, "endDate is before startDate")
	}
	records, err := s.store.ListByEmployeeAndRange(ctx, employeeID, firstDay, lastDay)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "listing attendance records")
	}
	return records, nil
}

// All returns the full ledger for admins, or the caller's own records
// otherwise.
func (s *Service) All(ctx context.Context) ([]*Record, error) {
	var (
		records []*Record
		err     error
	)
	if requestcontext.IsAdmin(ctx) {
		records, err = s.store.ListAll(ctx)
	} else {
		records, err = s.store.ListByEmployee(ctx, requestcontext.EmployeeID(ctx))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "listing attendance records")
	}
	return records, nil
}

// DeleteByEmployee clears an employee's ledger. Called by the directory as
// part of the employee-delete cascade, never exposed on its own route.
func (s *Service) DeleteByEmployee(ctx context.Context, employeeID string) (int, error) {
	n, err := s.store.DeleteByEmployee(ctx, employeeID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "deleting attendance records")
	}
	return n, nil
}

// authorizeRead allows admins to read anyone and everyone to read themselves.
func (s *Service) authorizeRead(ctx context.Context, employeeID string) error {
	if requestcontext.IsAdmin(ctx) {
		return nil
	}
	if requestcontext.EmployeeID(ctx) == employeeID {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "cannot read another employee's attendance")
}

func departmentKnown(departments []string, department string) bool {
	for _, d := range departments {
		if d == department {
			return true
		}
	}
	return false
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.EmployeeID(ctx)
	s.auditor.Emit(ctx, event)
}

func (s *Service) emitRejection(ctx context.Context, employeeID, reason string) {
	s.emit(ctx, audit.Event{
		Action:     audit.ActionAttendanceRejected,
		EmployeeID: employeeID,
		Reason:     reason,
	})
}
