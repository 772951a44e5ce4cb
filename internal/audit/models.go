package audit

import (
	"context"
	"time"
)

// Action enumerates the audited operations.
type Action string

const (
	ActionAttendanceMarked    Action = "attendance_marked"
	ActionAttendanceRejected  Action = "attendance_rejected"
	ActionSettingsUpdated     Action = "settings_updated"
	ActionEmployeeCreated     Action = "employee_created"
	ActionEmployeeDeactivated Action = "employee_deactivated"
	ActionEmployeeDeleted     Action = "employee_deleted"
	ActionLoginSucceeded      Action = "login_succeeded"
	ActionLoginFailed         Action = "login_failed"
	ActionLogout              Action = "logout"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	EmployeeID string    `json:"employee_id,omitempty"`
	// Subject identifies what the action touched when it isn't the employee
	// itself (a settings document, a deleted employee's id).
	Subject   string `json:"subject,omitempty"`
	Status    string `json:"status,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// ActorID tracks who performed the action when different from
	// EmployeeID, e.g. an admin deleting another employee's record.
	ActorID string `json:"actor_id,omitempty"`
}

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Event, error)
}
