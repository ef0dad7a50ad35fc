package table

import (
	"context"
	"sync"
)

// Memory keeps tabs in process memory. SetFailure simulates an outage.
type Memory struct {
	mu    sync.RWMutex
	title string
	order []string
	tabs  map[string][][]string
	fail  error
	reads int
}

func NewMemory(title string) *Memory {
	return &Memory{title: title, tabs: map[string][][]string{}}
}

// SetFailure makes every call fail with err (wrapped in ErrUnavailable) until
// it is reset with nil.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

// Reads counts Read calls, for cache tests.
func (m *Memory) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

func (m *Memory) Tabs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, unavailable("tabs", "", m.fail)
	}
	return append([]string(nil), m.order...), nil
}

func (m *Memory) AddTabs(_ context.Context, titles ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return unavailable("add tabs", "", m.fail)
	}
	for _, t := range titles {
		if _, ok := m.tabs[t]; ok {
			continue
		}
		m.tabs[t] = nil
		m.order = append(m.order, t)
	}
	return nil
}

func (m *Memory) Read(_ context.Context, tab string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.fail != nil {
		return nil, unavailable("read", tab, m.fail)
	}
	return copyRows(m.tabs[tab]), nil
}

func (m *Memory) Replace(_ context.Context, tab string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return unavailable("replace", tab, m.fail)
	}
	if _, ok := m.tabs[tab]; !ok {
		m.order = append(m.order, tab)
	}
	m.tabs[tab] = copyRows(rows)
	return nil
}

func (m *Memory) Ping(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return "", unavailable("ping", "", m.fail)
	}
	return m.title, nil
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
