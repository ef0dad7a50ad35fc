// Package migration applies the schema of the database table backend and
// records what ran in agromart_migrations.
//
// A migration registers itself from init() under a timestamp-prefixed name:
//
//	func init() {
//	    migration.Register("20260301000000_create_sheet_rows_table", &CreateSheetRowsTable{})
//	}
//
// Each Run applies everything pending as one batch; Rollback undoes the
// latest batch.
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type applied struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;size:255;not null"`
	Batch     int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (applied) TableName() string { return "agromart_migrations" }

var (
	names  []string
	byName = map[string]Migration{}
)

// Register adds m under name. Names sort chronologically; registering one
// twice panics.
func Register(name string, m Migration) {
	if _, dup := byName[name]; dup {
		panic("migration: duplicate " + name)
	}
	byName[name] = m
	names = append(names, name)
	sort.Strings(names)
}

// Runner applies registered migrations to one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New reports progress on stdout until WithOutput says otherwise.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) history() (map[string]applied, error) {
	if err := r.db.AutoMigrate(&applied{}); err != nil {
		return nil, fmt.Errorf("migration: tracking table: %w", err)
	}
	var rows []applied
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	done := make(map[string]applied, len(rows))
	for _, row := range rows {
		done[row.Name] = row
	}
	return done, nil
}

// Pending lists the names not yet applied, oldest first.
func (r *Runner) Pending() ([]string, error) {
	done, err := r.history()
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, name := range names {
		if _, ok := done[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Run applies every pending migration. Each one commits together with its
// history row, so a failure leaves earlier ones recorded.
func (r *Runner) Run() error {
	if len(names) == 0 {
		return ErrNoMigrations
	}
	done, err := r.history()
	if err != nil {
		return err
	}

	batch := 1
	for _, row := range done {
		if row.Batch >= batch {
			batch = row.Batch + 1
		}
	}

	ran := 0
	for _, name := range names {
		if _, ok := done[name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  migrating: %s\n", name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := byName[name].Up(tx); err != nil {
				return err
			}
			return tx.Create(&applied{Name: name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", name, err)
		}
		fmt.Fprintf(r.out, "  migrated:  %s\n", name)
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: applied", "count", ran, "batch", batch)
	return nil
}

// Rollback undoes the latest batch, newest migration first.
func (r *Runner) Rollback() error {
	if _, err := r.history(); err != nil {
		return err
	}
	var last applied
	err := r.db.Order("batch desc").Limit(1).Find(&last).Error
	if err != nil {
		return fmt.Errorf("migration: read history: %w", err)
	}
	if last.ID == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var rows []applied
	if err := r.db.Where("batch = ?", last.Batch).Order("id desc").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: read batch %d: %w", last.Batch, err)
	}
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s is applied but not registered", row.Name)
		}
		fmt.Fprintf(r.out, "  rolling back: %s\n", row.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&applied{}, row.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", row.Name, err)
		}
		fmt.Fprintf(r.out, "  rolled back:  %s\n", row.Name)
	}
	logger.Info("migration: rolled back", "count", len(rows), "batch", last.Batch)
	return nil
}

// Status prints one line per registered migration.
func (r *Runner) Status() error {
	done, err := r.history()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Migration\tStatus\tBatch\tApplied")
	for _, name := range names {
		row, ok := done[name]
		if !ok {
			fmt.Fprintf(tw, "%s\tPending\t-\t-\n", name)
			continue
		}
		fmt.Fprintf(tw, "%s\tRan\t%d\t%s\n", name, row.Batch, row.AppliedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
