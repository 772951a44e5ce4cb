package settings

import (
	"strings"
	"time"

	"rollcall/internal/attendance"
	dErrors "rollcall/pkg/domain-errors"
)

// WindowSettings is the organization-wide attendance configuration: the daily
// admission window plus the recognized departments. A single instance exists;
// Save replaces it wholesale.
type WindowSettings struct {
	Window      attendance.Window
	Departments []string
	UpdatedAt   time.Time
}

// Validate rejects malformed settings before they can reach storage. A failed
// save must leave the previously stored settings untouched.
func (s WindowSettings) Validate() error {
	if _, _, err := s.Window.Bounds(); err != nil {
		// Bounds reports CodeConfiguration for a stored window; at save time
		// the malformed input is the client's, so reclassify.
		return dErrors.Newf(dErrors.CodeValidation, "invalid window: %s", dErrors.DescriptionOf(err))
	}
	if len(s.Departments) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one department is required")
	}
	for _, d := range s.Departments {
		if strings.TrimSpace(d) == "" {
			return dErrors.New(dErrors.CodeValidation, "department names must not be blank")
		}
	}
	return nil
}
