// Package table is the tabular remote store behind the catalog: named tabs of
// string rows, the first row being the header.
//
// Three backends are provided:
//   - "sheets"   Google Sheets spreadsheet (one tab per row-set)
//   - "database" gorm table sheet_rows (sqlite, postgres, mysql, sqlserver)
//   - "memory"   in-process, for local development and tests
//
// Every I/O failure is reported wrapped in ErrUnavailable so callers can tell
// "store unavailable" apart from bad input with errors.Is. Backends never retry.
package table

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable marks any failure to reach or talk to the remote store.
var ErrUnavailable = errors.New("store unavailable")

// ErrNotConfigured is returned when a backend is missing its credentials.
var ErrNotConfigured = fmt.Errorf("%w: not configured", ErrUnavailable)

// Backend is the minimal contract of a tabular store.
type Backend interface {
	// Tabs lists existing tab titles.
	Tabs(ctx context.Context) ([]string, error)

	// AddTabs creates the given tabs. Existing titles are the caller's concern.
	AddTabs(ctx context.Context, titles ...string) error

	// Read returns all rows of tab, header first. A missing tab reads as no rows.
	Read(ctx context.Context, tab string) ([][]string, error)

	// Replace clears tab and writes rows in order.
	Replace(ctx context.Context, tab string, rows [][]string) error

	// Ping checks connectivity and returns a human readable store title.
	Ping(ctx context.Context) (string, error)
}

func unavailable(op, tab string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	if tab == "" {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, op, tab, err)
}
