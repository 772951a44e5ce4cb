package handler

import (
	"strings"

	"rollcall/internal/attendance"
	dErrors "rollcall/pkg/domain-errors"
)

// MarkRequest is the HTTP request body for POST /attendance.
type MarkRequest struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// Validate validates and normalizes the request.
// Implements the Validator interface for httputil.DecodeAndPrepare.
func (r *MarkRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.EmployeeID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "employeeId is required")
	}

	r.Department = strings.TrimSpace(r.Department)
	if r.Department == "" {
		return dErrors.New(dErrors.CodeBadRequest, "department is required")
	}

	r.Name = strings.TrimSpace(r.Name)

	if r.Status != "" && !attendance.Status(r.Status).Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown status %q", r.Status)
	}
	return nil
}

// ToDomain builds the service request.
func (r *MarkRequest) ToDomain() attendance.MarkRequest {
	return attendance.MarkRequest{
		EmployeeID: r.EmployeeID,
		Name:       r.Name,
		Department: r.Department,
		Status:     attendance.Status(r.Status),
	}
}
