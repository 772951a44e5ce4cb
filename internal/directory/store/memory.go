package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rollcall/internal/directory"
	"rollcall/pkg/platform/sentinel"
)

// InMemory is a concurrency-safe directory store for tests and local runs.
// The EMP### sequence starts at 1 and advances under the same lock as the
// uniqueness checks.
type InMemory struct {
	mu        sync.RWMutex
	seq       int
	employees map[string]*directory.Employee
}

func NewInMemory() *InMemory {
	return &InMemory{employees: make(map[string]*directory.Employee)}
}

func (s *InMemory) Create(_ context.Context, e *directory.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.employees {
		if strings.EqualFold(existing.Username, e.Username) || strings.EqualFold(existing.Email, e.Email) {
			return sentinel.ErrConflict
		}
	}

	s.seq++
	e.EmployeeID = directory.FormatEmployeeID(s.seq)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	cp := *e
	s.employees[e.EmployeeID] = &cp
	return nil
}

func (s *InMemory) FindByEmployeeID(_ context.Context, employeeID string) (*directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *InMemory) FindByLogin(_ context.Context, login string) (*directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.employees {
		if strings.EqualFold(e.Username, login) || strings.EqualFold(e.Email, login) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*directory.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *InMemory) UpdateStatus(_ context.Context, employeeID string, status directory.EmployeeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[employeeID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.Status = status
	return nil
}

func (s *InMemory) Delete(_ context.Context, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.employees, employeeID)
	return nil
}
