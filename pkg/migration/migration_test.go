package migration_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/agromart/pkg/database"
	"github.com/shashiranjanraj/agromart/pkg/migration"
)

type backupLog struct {
	ID   uint
	Path string
}

type createBackupLog struct{}

func (createBackupLog) Up(db *gorm.DB) error { return db.AutoMigrate(&backupLog{}) }
func (createBackupLog) Down(db *gorm.DB) error { return db.Migrator().DropTable(&backupLog{}) }

type broken struct{}

func (broken) Up(db *gorm.DB) error {
	if err := db.Exec("CREATE TABLE half_done (id INTEGER)").Error; err != nil {
		return err
	}
	return errors.New("boom")
}
func (broken) Down(*gorm.DB) error { return nil }

var failing bool

type maybeBroken struct{}

func (maybeBroken) Up(db *gorm.DB) error {
	if failing {
		return broken{}.Up(db)
	}
	return nil
}
func (maybeBroken) Down(*gorm.DB) error { return nil }

func init() {
	migration.Register("20260401000000_create_backup_logs_table", createBackupLog{})
	migration.Register("20260101000000_noop", maybeBroken{})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	return db
}

func TestRegisterSortsAndRejectsDuplicates(t *testing.T) {
	db := openDB(t)
	pending, err := migration.New(db).Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_noop", "20260401000000_create_backup_logs_table"}, pending)

	assert.Panics(t, func() { migration.Register("20260101000000_noop", maybeBroken{}) })
}

func TestFailedMigrationRollsBackItsTransaction(t *testing.T) {
	failing = true
	defer func() { failing = false }()

	db := openDB(t)
	err := migration.New(db).WithOutput(&bytes.Buffer{}).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20260101000000_noop")
	assert.False(t, db.Migrator().HasTable("half_done"))

	pending, err := migration.New(db).Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestBatches(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.New(db).WithOutput(&out)

	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&backupLog{}))

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "20260401000000_create_backup_logs_table  Ran")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&backupLog{}))
	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
