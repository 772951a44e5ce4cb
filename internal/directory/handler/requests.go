package handler

import (
	"strings"
	"time"

	"rollcall/internal/directory"
	dErrors "rollcall/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /employees.
type CreateRequest struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Password   string   `json:"password"`
	Roles      []string `json:"roles"`
}

// Validate trims the fields and delegates the rules to the domain request.
// Implements the Validator interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Department = strings.TrimSpace(r.Department)
	return r.ToDomain().Validate()
}

// ToDomain builds the service request.
func (r *CreateRequest) ToDomain() directory.CreateRequest {
	return directory.CreateRequest{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Username:   r.Username,
		Email:      r.Email,
		Department: r.Department,
		Password:   r.Password,
		Roles:      r.Roles,
	}
}

// EmployeeResponse is the wire representation of an employee. The password
// hash never leaves the server.
type EmployeeResponse struct {
	EmployeeID string   `json:"employeeId"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Roles      []string `json:"roles"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}

// FromEmployee converts a domain employee to its wire form.
func FromEmployee(e *directory.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Username:   e.Username,
		Email:      e.Email,
		Department: e.Department,
		Roles:      e.Roles,
		Status:     string(e.Status),
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// FromEmployees converts an employee list, never returning a null JSON array.
func FromEmployees(employees []*directory.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, FromEmployee(e))
	}
	return out
}
