package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rollcall/pkg/domain-errors"
)

func nairobi(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)
	return loc
}

func at(t *testing.T, loc *time.Location, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2024, time.March, 11, hour, minute, 0, 0, loc)
}

func TestEvaluateWindowBoundaries(t *testing.T) {
	loc := nairobi(t)
	window := Window{Start: "08:30", End: "09:00"}

	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"exactly at start is on time", at(t, loc, 8, 30), StatusPresent},
		{"exactly at end is on time", at(t, loc, 9, 0), StatusPresent},
		{"inside the window", at(t, loc, 8, 45), StatusPresent},
		{"one minute before start", at(t, loc, 8, 29), StatusAbsent},
		{"one minute after end", at(t, loc, 9, 1), StatusAbsent},
		{"midnight", at(t, loc, 0, 0), StatusAbsent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateWindow(tc.now, window, loc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateWindowNormalizesTimezone(t *testing.T) {
	loc := nairobi(t)
	window := Window{Start: "08:30", End: "09:00"}

	// 05:45 UTC is 08:45 in Nairobi (UTC+3).
	utcInstant := time.Date(2024, time.March, 11, 5, 45, 0, 0, time.UTC)
	got, err := EvaluateWindow(utcInstant, window, loc)
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, got)
}

func TestEvaluateWindowIsDeterministic(t *testing.T) {
	loc := nairobi(t)
	window := Window{Start: "08:30", End: "09:00"}
	now := at(t, loc, 8, 59)

	first, err := EvaluateWindow(now, window, loc)
	require.NoError(t, err)
	second, err := EvaluateWindow(now, window, loc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateWindowMalformedConfig(t *testing.T) {
	loc := nairobi(t)
	now := at(t, loc, 8, 45)

	t.Run("unparseable start", func(t *testing.T) {
		_, err := EvaluateWindow(now, Window{Start: "25:99", End: "09:00"}, loc)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("unparseable end", func(t *testing.T) {
		_, err := EvaluateWindow(now, Window{Start: "08:30", End: "9am"}, loc)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := EvaluateWindow(now, Window{Start: "22:00", End: "02:00"}, loc)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"8:30", 510, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"noon", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDayBucket(t *testing.T) {
	loc := nairobi(t)

	start, end := DayBucket(time.Date(2024, time.March, 11, 23, 30, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, loc), end)

	// An instant late on the 11th UTC is already the 12th in Nairobi.
	start, _ = DayBucket(time.Date(2024, time.March, 11, 22, 30, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, loc), start)
}
