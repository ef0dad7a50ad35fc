package app

// pkg/app/commands.go holds the work behind each CLI sub-command. Database
// commands only need a gorm connection; the rest run on a booted App.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/routes"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/database/seeders"
	"github.com/shashiranjanraj/agromart/pkg/database"
	"github.com/shashiranjanraj/agromart/pkg/migration"
)

// Migrate runs all pending migrations.
func Migrate(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	defer database.Close()
	return migration.New(database.DB).WithOutput(out).Run()
}

// MigrateRollback reverses the last migration batch.
func MigrateRollback(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	defer database.Close()
	return migration.New(database.DB).WithOutput(out).Rollback()
}

// MigrateStatus prints the migration table.
func MigrateStatus(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	defer database.Close()
	return migration.New(database.DB).WithOutput(out).Status()
}

// bootDB loads config and connects to the database.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// Seed runs the named seeders, or all of them, against the live store.
func (a *App) Seed(ctx context.Context, out io.Writer, only ...string) error {
	if err := seeders.RunAll(ctx, a.Repo, out, only...); err != nil {
		return err
	}
	a.Catalog.Invalidate()
	return nil
}

// RouteList prints every mounted route.
func (a *App) RouteList(out io.Writer) error {
	limiters := routes.NewLimiters()
	defer limiters.Stop()

	k, err := a.Kernel(limiters)
	if err != nil {
		return err
	}

	list := k.Router().Routes()
	if len(list) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range list {
		method := ri.Method
		if method == "*" {
			method = "ANY"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", method, ri.Path, ri.Name)
	}
	return w.Flush()
}

// SheetsInit creates the Products, Categories and Settings tabs with their
// headers and reports the store title.
func (a *App) SheetsInit(ctx context.Context, out io.Writer) error {
	if err := a.Repo.EnsureSchema(ctx); err != nil {
		return err
	}
	title, err := a.Repo.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Schema ready in %q\n", title)
	return nil
}

// SheetsTest pings the live store.
func (a *App) SheetsTest(ctx context.Context, out io.Writer) error {
	status := a.Sheets.Status(ctx)
	if !status.Success {
		return fmt.Errorf("connection failed: %s", status.Error)
	}
	cfg := a.Sheets.Config()
	fmt.Fprintf(out, "Connected to %q (sheet %s, %s)\n", status.Title, cfg.SheetID, cfg.ServiceAccountEmail)
	return nil
}

// Export writes the export document as indented JSON.
func (a *App) Export(ctx context.Context, w io.Writer) error {
	doc, err := a.Catalog.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Import replaces the catalog with the data object read from r, either an
// export document or an {"products": ..., "categories": ...} object.
func (a *App) Import(ctx context.Context, r io.Reader) (services.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return services.ImportResult{}, fmt.Errorf("import: read: %w", err)
	}
	in, err := requests.ImportRequest{Data: raw}.Validate(config.ImportMaxProducts())
	if err != nil {
		return services.ImportResult{}, describe(err)
	}
	return a.Catalog.Import(ctx, in)
}

// Backup writes a backup to the BACKUP_DISK disk and returns its path.
func (a *App) Backup(ctx context.Context) (string, error) {
	return a.Catalog.Backup(ctx, a.Backups)
}

// describe flattens a validation error for terminal output.
func describe(err error) error {
	var ve *requests.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	lines := make([]string, 0, len(ve.Fields))
	for field, msg := range ve.Fields {
		lines = append(lines, "  "+field+": "+msg)
	}
	sort.Strings(lines)
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}
