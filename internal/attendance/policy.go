package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	dErrors "rollcall/pkg/domain-errors"
)

// Window is the configured daily admission range, wall-clock times in HH:MM
// interpreted in the organization timezone. Start <= End; overnight-spanning
// windows are not supported.
type Window struct {
	Start string `json:"startTime"`
	End   string `json:"endTime"`
}

// timePattern accepts 24-hour HH:MM with an optional leading zero on the hour.
var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if !timePattern.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	hours, _ := strconv.Atoi(hh)
	minutes, _ := strconv.Atoi(mm)
	return hours*60 + minutes, nil
}

// Bounds returns the window edges as minutes since midnight. A malformed
// window is a configuration error: marking must be blocked rather than
// admitted under an undefined window.
func (w Window) Bounds() (startMinutes, endMinutes int, err error) {
	startMinutes, err = ParseClock(w.Start)
	if err != nil {
		return 0, 0, dErrors.Wrap(err, dErrors.CodeConfiguration, "attendance window start is malformed")
	}
	endMinutes, err = ParseClock(w.End)
	if err != nil {
		return 0, 0, dErrors.Wrap(err, dErrors.CodeConfiguration, "attendance window end is malformed")
	}
	if startMinutes > endMinutes {
		return 0, 0, dErrors.New(dErrors.CodeConfiguration, "attendance window start is after end")
	}
	return startMinutes, endMinutes, nil
}

// EvaluateWindow decides the automatic status for a submission at the given
// instant. Pure function: no I/O, no side effects, deterministic for fixed
// inputs. The instant is normalized to the organization timezone before the
// minutes-since-midnight comparison; both window edges are inclusive.
func EvaluateWindow(now time.Time, w Window, loc *time.Location) (Status, error) {
	startMinutes, endMinutes, err := w.Bounds()
	if err != nil {
		return "", err
	}
	local := now.In(loc)
	nowMinutes := local.Hour()*60 + local.Minute()
	if startMinutes <= nowMinutes && nowMinutes <= endMinutes {
		return StatusPresent, nil
	}
	return StatusAbsent, nil
}
