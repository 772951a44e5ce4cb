package handler

import (
	"time"

	"rollcall/internal/attendance"
)

// RecordResponse is the wire representation of one attendance record.
type RecordResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// FromRecord converts a domain record to its wire form.
func FromRecord(record *attendance.Record) RecordResponse {
	return RecordResponse{
		ID:         record.ID.String(),
		EmployeeID: record.EmployeeID,
		Name:       record.Name,
		Department: record.Department,
		Status:     string(record.Status),
		Date:       record.Date.Format(time.RFC3339),
	}
}

// FromRecords converts a record list, never returning a null JSON array.
func FromRecords(records []*attendance.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}
