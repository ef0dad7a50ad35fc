package table

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/agromart/pkg/metrics"
)

// SheetRow is one stored row of a tab. Cells hold the JSON-encoded string slice.
type SheetRow struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Tab      string `gorm:"size:64;not null;index:idx_sheet_rows_tab_pos,priority:1"`
	Position int    `gorm:"not null;index:idx_sheet_rows_tab_pos,priority:2"`
	Cells    string `gorm:"type:text;not null"`
}

func (SheetRow) TableName() string { return "sheet_rows" }

// Database stores tabs in the sheet_rows table of any gorm dialect.
type Database struct {
	db    *gorm.DB
	title string
}

func NewDatabase(db *gorm.DB, title string) *Database {
	return &Database{db: db, title: title}
}

// Tabs returns the tabs that hold at least one row. AddTabs is a no-op for
// this backend: a tab exists once its header row is written.
func (d *Database) Tabs(ctx context.Context) ([]string, error) {
	defer metrics.ObserveSQL("select", time.Now())

	var tabs []string
	if err := d.db.WithContext(ctx).Model(&SheetRow{}).Distinct("tab").Order("tab").Pluck("tab", &tabs).Error; err != nil {
		return nil, unavailable("tabs", "", err)
	}
	return tabs, nil
}

func (d *Database) AddTabs(_ context.Context, _ ...string) error { return nil }

func (d *Database) Read(ctx context.Context, tab string) ([][]string, error) {
	defer metrics.ObserveSQL("select", time.Now())

	var records []SheetRow
	if err := d.db.WithContext(ctx).Where("tab = ?", tab).Order("position").Find(&records).Error; err != nil {
		return nil, unavailable("read", tab, err)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		var cells []string
		if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
			return nil, unavailable("read", tab, fmt.Errorf("row %d: %w", rec.Position, err))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (d *Database) Replace(ctx context.Context, tab string, rows [][]string) error {
	defer metrics.ObserveSQL("update", time.Now())

	records := make([]SheetRow, 0, len(rows))
	for i, r := range rows {
		if r == nil {
			r = []string{}
		}
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("table: encode %s row %d: %w", tab, i, err)
		}
		records = append(records, SheetRow{Tab: tab, Position: i, Cells: string(raw)})
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tab = ?", tab).Delete(&SheetRow{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 500).Error
	})
	if err != nil {
		return unavailable("replace", tab, err)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) (string, error) {
	sqlDB, err := d.db.DB()
	if err != nil {
		return "", unavailable("ping", "", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "", unavailable("ping", "", err)
	}
	return d.title, nil
}
