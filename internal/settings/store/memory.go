package store

import (
	"context"
	"slices"
	"sync"

	"rollcall/internal/settings"
	"rollcall/pkg/platform/sentinel"
)

// InMemory holds the settings singleton in process memory.
type InMemory struct {
	mu      sync.RWMutex
	current *settings.WindowSettings
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Get(_ context.Context) (*settings.WindowSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.current
	copied.Departments = slices.Clone(s.current.Departments)
	return &copied, nil
}

func (s *InMemory) Save(_ context.Context, next *settings.WindowSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *next
	copied.Departments = slices.Clone(next.Departments)
	s.current = &copied
	return nil
}
