package directory

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"rollcall/internal/audit"
	"rollcall/internal/platform/metrics"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// AttendanceLedger is the slice of the attendance module the directory needs
// for the delete cascade.
type AttendanceLedger interface {
	DeleteByEmployee(ctx context.Context, employeeID string) (int, error)
}

// AuditPublisher emits directory lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns employee lifecycle: provisioning, lookup, deactivation and
// deletion with attendance cascade.
type Service struct {
	store   Store
	ledger  AttendanceLedger
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
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

func NewService(store Store, ledger AttendanceLedger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		ledger: ledger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create provisions a new employee. The store assigns the EMP### identifier;
// the password is hashed here so plaintext never reaches storage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hashing password")
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{"EMPLOYEE"}
	}

	e := &Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		Department:   req.Department,
		Roles:        roles,
		Status:       StatusActive,
		PasswordHash: string(hash),
	}

	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "username or email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "creating employee")
	}

	s.metrics.IncrementEmployeesCreated()
	s.emit(ctx, audit.ActionEmployeeCreated, e.EmployeeID)
	s.logger.InfoContext(ctx, "employee created",
		"employee_id", e.EmployeeID,
		"department", e.Department,
		"request_id", requestcontext.RequestID(ctx),
	)
	return e, nil
}

// Get returns an employee by the EMP### identifier.
func (s *Service) Get(ctx context.Context, employeeID string) (*Employee, error) {
	e, err := s.store.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetching employee")
	}
	return e, nil
}

// FindActive returns the employee only when their status is ACTIVE. Inactive
// and terminated employees are reported as not found so callers cannot tell
// the cases apart.
func (s *Service) FindActive(ctx context.Context, employeeID string) (*Employee, error) {
	e, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
	}
	return e, nil
}

// Authenticate verifies a login (username or email) against the stored
// password hash. Unknown login, non-active status, and password mismatch all
// return the same unauthorized error so callers cannot probe which part
// failed.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*Employee, error) {
	failed := dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

	e, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, failed
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetching employee")
	}
	if e.Status != StatusActive {
		return nil, failed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return nil, failed
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "listing employees")
	}
	return out, nil
}

// Deactivate flips the employee to INACTIVE. Attendance history is kept.
func (s *Service) Deactivate(ctx context.Context, employeeID string) error {
	if err := s.store.UpdateStatus(ctx, employeeID, StatusInactive); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "deactivating employee")
	}
	s.emit(ctx, audit.ActionEmployeeDeactivated, employeeID)
	return nil
}

// Delete removes the employee and cascades into the attendance ledger. The
// ledger is cleared first so a crash between the two steps leaves a directory
// record that a retry can still find.
func (s *Service) Delete(ctx context.Context, employeeID string) error {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return err
	}

	removed, err := s.ledger.DeleteByEmployee(ctx, employeeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "clearing attendance history")
	}

	if err := s.store.Delete(ctx, employeeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "deleting employee")
	}

	s.emit(ctx, audit.ActionEmployeeDeleted, employeeID)
	s.logger.InfoContext(ctx, "employee deleted",
		"employee_id", employeeID,
		"attendance_records_removed", removed,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, subject string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		Subject:   subject,
		ActorID:   requestcontext.EmployeeID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}
