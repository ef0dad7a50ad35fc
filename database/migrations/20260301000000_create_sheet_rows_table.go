package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/agromart/pkg/migration"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

func init() {
	migration.Register("20260301000000_create_sheet_rows_table", &CreateSheetRowsTable{})
}

// CreateSheetRowsTable holds every tab of the catalog (Products, Categories,
// Settings) as ordered rows.
type CreateSheetRowsTable struct{}

func (m *CreateSheetRowsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&table.SheetRow{})
}

func (m *CreateSheetRowsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("sheet_rows")
}
