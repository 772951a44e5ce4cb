package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"rollcall/internal/attendance"
	"rollcall/pkg/platform/sentinel"
)

// InMemory keeps the ledger in process memory. The duplicate check and
// insert happen under one lock, giving the same atomicity the postgres
// unique index provides. Intended for unit tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	loc     *time.Location
	records map[string]*attendance.Record // keyed by employeeID + day
}

// NewInMemory constructs an empty in-memory ledger. Day buckets are computed
// in loc, the organization timezone.
func NewInMemory(loc *time.Location) *InMemory {
	return &InMemory{
		loc:     loc,
		records: make(map[string]*attendance.Record),
	}
}

func (s *InMemory) key(employeeID string, t time.Time) string {
	dayStart, _ := attendance.DayBucket(t, s.loc)
	return employeeID + "|" + dayStart.Format("2006-01-02")
}

func (s *InMemory) Insert(_ context.Context, record *attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(record.EmployeeID, record.Date)
	if _, exists := s.records[key]; exists {
		return sentinel.ErrConflict
	}
	stored := *record
	s.records[key] = &stored
	return nil
}

func (s *InMemory) FindByEmployeeAndDay(_ context.Context, employeeID string, dayStart time.Time) (*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[s.key(employeeID, dayStart)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *InMemory) ListByEmployeeAndRange(_ context.Context, employeeID string, firstDay, lastDay time.Time) ([]*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// lastDay is inclusive: anything before the start of the following day.
	cutoff := lastDay.AddDate(0, 0, 1)
	var out []*attendance.Record
	for _, record := range s.records {
		if record.EmployeeID != employeeID {
			continue
		}
		dayStart, _ := attendance.DayBucket(record.Date, s.loc)
		if dayStart.Before(firstDay) || !dayStart.Before(cutoff) {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemory) ListByEmployee(_ context.Context, employeeID string) ([]*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*attendance.Record
	for _, record := range s.records {
		if record.EmployeeID == employeeID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*attendance.Record, 0, len(s.records))
	for _, record := range s.records {
		copied := *record
		out = append(out, &copied)
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemory) DeleteByEmployee(_ context.Context, employeeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, record := range s.records {
		if record.EmployeeID == employeeID {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func sortByDate(records []*attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
