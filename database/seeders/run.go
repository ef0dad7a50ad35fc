// Package seeders fills an empty store with starter data. `agromart seed`
// runs every seeder; `agromart seed demo-catalog` runs the named ones.
package seeders

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// Seeder writes starter data through the snapshot repository.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, repo *repositories.SnapshotRepository) error
}

// All lists the seeders in the order they run.
var All = []Seeder{
	{Name: "demo-catalog", Run: SeedDemoCatalog},
}

// RunAll runs the seeders named in only, or all of them when only is
// empty, and stops at the first failure.
func RunAll(ctx context.Context, repo *repositories.SnapshotRepository, out io.Writer, only ...string) error {
	selected, err := pick(only)
	if err != nil {
		return err
	}
	for _, s := range selected {
		start := time.Now()
		if err := s.Run(ctx, repo); err != nil {
			fmt.Fprintf(out, "  %-16s FAILED\n", s.Name)
			return fmt.Errorf("seeder %s: %w", s.Name, err)
		}
		took := time.Since(start).Round(time.Millisecond)
		fmt.Fprintf(out, "  %-16s done (%s)\n", s.Name, took)
		logger.WithCtx(ctx).Info("seeder ran", "name", s.Name, "took", took)
	}
	return nil
}

func pick(only []string) ([]Seeder, error) {
	if len(only) == 0 {
		return All, nil
	}
	selected := make([]Seeder, 0, len(only))
	for _, name := range only {
		found := false
		for _, s := range All {
			if s.Name == name {
				selected = append(selected, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown seeder %q", name)
		}
	}
	return selected, nil
}
