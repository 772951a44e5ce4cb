package handler

import (
	"strings"
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/settings"
	dErrors "rollcall/pkg/domain-errors"
)

// SaveRequest is the HTTP request body for PUT /settings.
type SaveRequest struct {
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Departments []string `json:"departments"`
}

// Validate trims the fields and delegates the window and department rules to
// the domain model.
// Implements the Validator interface for httputil.DecodeAndPrepare.
func (r *SaveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	for i, d := range r.Departments {
		r.Departments[i] = strings.TrimSpace(d)
	}
	return r.ToDomain().Validate()
}

// ToDomain builds the domain settings value.
func (r *SaveRequest) ToDomain() settings.WindowSettings {
	return settings.WindowSettings{
		Window: attendance.Window{
			Start: r.StartTime,
			End:   r.EndTime,
		},
		Departments: r.Departments,
	}
}

// SettingsResponse is the wire representation of the settings.
type SettingsResponse struct {
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Departments []string `json:"departments"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// FromSettings converts domain settings to their wire form.
func FromSettings(s *settings.WindowSettings) SettingsResponse {
	resp := SettingsResponse{
		StartTime:   s.Window.Start,
		EndTime:     s.Window.End,
		Departments: s.Departments,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
