// Package app wires the AgroMart server together: configuration, logging,
// the remote store, services, and the HTTP and gRPC listeners.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	return a.Serve(ctx)
//
// The CLI in cmd/agromart calls Boot once per command and then one of the
// command helpers in commands.go.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shashiranjanraj/agromart/app/controllers"
	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/app/routes"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/database/seeders"
	"github.com/shashiranjanraj/agromart/internal/kernel"
	"github.com/shashiranjanraj/agromart/pkg/crypt"
	"github.com/shashiranjanraj/agromart/pkg/database"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/migration"
	"github.com/shashiranjanraj/agromart/pkg/router"
	"github.com/shashiranjanraj/agromart/pkg/storage"
	"github.com/shashiranjanraj/agromart/pkg/table"

	// Register migrations so the database store can create its table.
	_ "github.com/shashiranjanraj/agromart/database/migrations"
)

// App is a booted AgroMart server.
type App struct {
	Started time.Time
	Driver  string

	Store   *table.Swappable
	Repo    *repositories.SnapshotRepository
	Catalog *services.CatalogService
	Auth    *services.AuthService
	Sheets  *services.SheetsConfigService
	Backups storage.Disk

	closers []func()
}

// Options override what Boot would otherwise read from the environment.
type Options struct {
	// Backend replaces the STORE_DRIVER backend. Tests pass a table.Memory.
	Backend table.Backend
	// Connector replaces the Google Sheets connector.
	Connector services.Connector
	// LogOutput receives the logs; defaults to stdout.
	LogOutput io.Writer
}

// Boot loads configuration and opens the store named by STORE_DRIVER.
// A sheets store with missing or broken credentials is not fatal: the
// server starts and serves the default catalog until the admin connects.
func Boot(ctx context.Context, opts ...Options) (*App, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if o.LogOutput == nil {
		o.LogOutput = os.Stdout
	}
	logger.Setup(config.AppEnv(), o.LogOutput)

	a := &App{Started: time.Now(), Driver: config.StoreDriver()}
	if uri := config.LogMongoURI(); uri != "" {
		closeLog, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			a.closers = append(a.closers, closeLog)
		}
	}

	storage.Connect(ctx)
	backups, err := storage.Lookup(config.BackupDisk())
	if err != nil {
		logger.Warn("backup disk unavailable, using local", "disk", config.BackupDisk(), "error", err)
		backups = storage.Use("local")
	}
	a.Backups = backups

	a.Store = table.NewSwappable(nil)
	a.Repo = repositories.NewSnapshotRepository(a.Store)
	a.Catalog = services.NewCatalogService(a.Repo, config.CacheTTL())
	a.Auth = services.NewAuthService(config.SessionTTL())

	box, err := crypt.New(config.AppKey())
	if err != nil {
		logger.Warn("sheets credentials will not be persisted", "error", err)
	}
	a.Sheets = services.NewSheetsConfigService(a.Store, a.Repo, a.Catalog,
		storage.Use("local"), box, o.Connector, envCredentials())

	backend := o.Backend
	if backend == nil {
		if backend, err = a.openBackend(ctx, o.Connector); err != nil {
			a.Close()
			return nil, err
		}
	}
	if backend != nil {
		a.Store.Set(backend)
	}
	if a.Driver == "memory" && o.Backend == nil {
		if err := seeders.SeedDemoCatalog(ctx, a.Repo); err != nil {
			logger.Warn("demo catalog not seeded", "error", err)
		}
	}

	logger.Info("AgroMart booted", "store", a.Driver, "env", config.AppEnv())
	return a, nil
}

// openBackend returns nil (not an error) when sheets cannot connect yet.
func (a *App) openBackend(ctx context.Context, connect services.Connector) (table.Backend, error) {
	switch a.Driver {
	case "sheets":
		creds, err := a.Sheets.Load(ctx)
		if err != nil {
			logger.Warn("saved sheets credentials ignored", "error", err)
		}
		if !creds.Complete() {
			logger.Warn("google sheets not configured", "missing", creds.Missing())
			return nil, nil
		}
		if connect == nil {
			connect = services.SheetsConnector
		}
		b, err := connect(ctx, creds)
		if err != nil {
			logger.Warn("google sheets connection failed", "error", err)
			return nil, nil
		}
		return b, nil

	case "database":
		if err := database.Connect(); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = database.Close() })
		err := migration.New(database.DB).WithOutput(io.Discard).Run()
		if err != nil && !errors.Is(err, migration.ErrNoMigrations) {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return table.NewDatabase(database.DB, "AgroMart database"), nil

	default:
		return table.NewMemory("AgroMart (memory)"), nil
	}
}

func envCredentials() table.Credentials {
	return table.Credentials{
		SheetID:             config.GoogleSheetID(),
		ServiceAccountEmail: config.GoogleServiceAccountEmail(),
		PrivateKey:          config.GooglePrivateKey(),
	}
}

// Controllers builds every HTTP controller over the booted services.
func (a *App) Controllers() (routes.Controllers, error) {
	schema, err := controllers.NewCatalogSchema(a.Catalog)
	if err != nil {
		return routes.Controllers{}, fmt.Errorf("graphql schema: %w", err)
	}
	return routes.Controllers{
		Data:         controllers.NewDataController(a.Catalog, a.Backups),
		Catalog:      controllers.NewCatalogController(a.Catalog),
		Auth:         controllers.NewAuthController(a.Auth),
		SheetsConfig: controllers.NewSheetsConfigController(a.Sheets),
		Health:       controllers.NewHealthController(a.Started, a.Repo.Ping),
		GraphQL:      schema,
	}, nil
}

// Kernel builds the HTTP kernel with every route mounted.
func (a *App) Kernel(l *routes.Limiters) (*kernel.HTTPKernel, error) {
	c, err := a.Controllers()
	if err != nil {
		return nil, err
	}
	return kernel.NewHTTPKernel(func(r *router.Router) {
		routes.RegisterAPI(r, c, l)
	}), nil
}

// Close releases what Boot opened, most recent first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
