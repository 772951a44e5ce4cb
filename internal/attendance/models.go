package attendance

import (
	"time"

	"github.com/google/uuid"

	dErrors "rollcall/pkg/domain-errors"
)

// Status is the closed set of attendance outcomes. Present and Absent are
// derived server-side from the admission window; the remaining values are
// manual overrides asserted by the submitter.
type Status string

const (
	StatusPresent      Status = "Present"
	StatusLate         Status = "Late"
	StatusWorkFromHome Status = "Work From Home"
	StatusOnLeave      Status = "On Leave"
	StatusAbsent       Status = "Absent"
)

// manualOverrides is the subset of statuses a client may assert directly.
// Present/Absent are never trusted from the client; the service re-derives
// them from the configured window.
var manualOverrides = map[Status]bool{
	StatusLate:         true,
	StatusWorkFromHome: true,
	StatusOnLeave:      true,
}

// IsManualOverride reports whether s may be asserted by the submitter.
func (s Status) IsManualOverride() bool {
	return manualOverrides[s]
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusWorkFromHome, StatusOnLeave, StatusAbsent:
		return true
	}
	return false
}

// Record is one attendance entry. Exactly one exists per employee per
// calendar day; records are immutable once written and disappear only when
// the owning employee is deleted.
type Record struct {
	ID         uuid.UUID
	EmployeeID string
	Name       string
	Department string
	Status     Status
	Date       time.Time
}

// MarkRequest carries a mark-attendance submission into the service.
// Status is optional: empty (or a non-override value) means "derive from the
// window"; a manual override value is persisted as-is.
type MarkRequest struct {
	EmployeeID string
	Name       string
	Department string
	Status     Status
}

// Validate checks the request fields that don't need collaborators.
func (r MarkRequest) Validate() error {
	if r.EmployeeID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "employeeId is required")
	}
	if r.Department == "" {
		return dErrors.New(dErrors.CodeBadRequest, "department is required")
	}
	if r.Status != "" && !r.Status.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown status %q", string(r.Status))
	}
	return nil
}

// DayBucket returns the half-open calendar-day interval [start, start+24h)
// containing t in the given location. The bucket start is the uniqueness key
// alongside the employee ID.
func DayBucket(t time.Time, loc *time.Location) (start, end time.Time) {
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
