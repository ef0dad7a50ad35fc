package table

import (
	"context"
	"sync"
)

// Swappable forwards to a backend that can be replaced at runtime, e.g. when
// the admin updates the spreadsheet credentials. A nil backend reports
// ErrNotConfigured.
type Swappable struct {
	mu      sync.RWMutex
	backend Backend
}

func NewSwappable(b Backend) *Swappable {
	return &Swappable{backend: b}
}

func (s *Swappable) Set(b Backend) {
	s.mu.Lock()
	s.backend = b
	s.mu.Unlock()
}

func (s *Swappable) Current() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

func (s *Swappable) get() (Backend, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNotConfigured
	}
	return b, nil
}

func (s *Swappable) Tabs(ctx context.Context) ([]string, error) {
	b, err := s.get()
	if err != nil {
		return nil, err
	}
	return b.Tabs(ctx)
}

func (s *Swappable) AddTabs(ctx context.Context, titles ...string) error {
	b, err := s.get()
	if err != nil {
		return err
	}
	return b.AddTabs(ctx, titles...)
}

func (s *Swappable) Read(ctx context.Context, tab string) ([][]string, error) {
	b, err := s.get()
	if err != nil {
		return nil, err
	}
	return b.Read(ctx, tab)
}

func (s *Swappable) Replace(ctx context.Context, tab string, rows [][]string) error {
	b, err := s.get()
	if err != nil {
		return err
	}
	return b.Replace(ctx, tab, rows)
}

func (s *Swappable) Ping(ctx context.Context) (string, error) {
	b, err := s.get()
	if err != nil {
		return "", err
	}
	return b.Ping(ctx)
}
