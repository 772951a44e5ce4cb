package directory

import (
	"fmt"
	"strings"
	"time"

	dErrors "rollcall/pkg/domain-errors"
)

// EmployeeStatus is the lifecycle state of an employee record. Only ACTIVE
// employees may mark attendance.
type EmployeeStatus string

const (
	StatusActive     EmployeeStatus = "ACTIVE"
	StatusInactive   EmployeeStatus = "INACTIVE"
	StatusOnLeave    EmployeeStatus = "ON_LEAVE"
	StatusTerminated EmployeeStatus = "TERMINATED"
)

// Valid reports whether s belongs to the closed status set.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

// Employee is a directory record. EmployeeID carries the EMP### scheme,
// assigned by the store at creation in provisioning order.
type Employee struct {
	EmployeeID   string
	FirstName    string
	LastName     string
	Username     string
	Email        string
	Department   string
	Roles        []string
	Status       EmployeeStatus
	PasswordHash string
	CreatedAt    time.Time
}

// FullName joins the name parts for the denormalized attendance snapshot.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// FormatEmployeeID renders the EMP### identifier for a sequence number.
// Widths grow past three digits rather than overflowing (EMP1000).
func FormatEmployeeID(seq int) string {
	return fmt.Sprintf("EMP%03d", seq)
}

// CreateRequest carries a new-employee submission.
type CreateRequest struct {
	FirstName  string
	LastName   string
	Username   string
	Email      string
	Department string
	Password   string
	Roles      []string
}

// Validate enforces the required fields; password policy stays minimal on
// purpose (length only), mirroring what the directory actually enforces.
func (r CreateRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "firstName and lastName are required")
	}
	if len(r.Username) < 5 || len(r.Username) > 30 {
		return dErrors.New(dErrors.CodeValidation, "username must be 5-30 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}
