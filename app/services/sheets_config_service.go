package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shashiranjanraj/agromart/app/repositories"
	"github.com/shashiranjanraj/agromart/pkg/crypt"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/storage"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

// CredentialsPath is where the sealed spreadsheet credentials live on the
// local disk.
const CredentialsPath = "secrets/sheets_credentials.enc"

// ErrNotConnected is reported while the spreadsheet credentials are incomplete.
var ErrNotConnected = errors.New("google sheets not connected")

// Connector opens a spreadsheet backend for the given credentials.
type Connector func(ctx context.Context, creds table.Credentials) (table.Backend, error)

// SheetsConnector is the production Connector.
func SheetsConnector(ctx context.Context, creds table.Credentials) (table.Backend, error) {
	return table.NewSheets(ctx, creds)
}

// SheetsConfig is the credentials view safe to return to the admin panel.
type SheetsConfig struct {
	SheetID             string `json:"sheetId"`
	ServiceAccountEmail string `json:"serviceAccountEmail"`
	IsConnected         bool   `json:"isConnected"`
}

// ConnectionStatus is the outcome of a connection test.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Title   string `json:"title,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SheetsConfigService changes the spreadsheet connection at runtime.
type SheetsConfigService struct {
	store   *table.Swappable
	repo    *repositories.SnapshotRepository
	catalog *CatalogService
	disk    storage.Disk
	box     *crypt.Box
	connect Connector

	mu    sync.Mutex
	creds table.Credentials
}

// NewSheetsConfigService starts from initial (usually the environment). A nil
// box disables persistence; a nil disk too.
func NewSheetsConfigService(
	store *table.Swappable,
	repo *repositories.SnapshotRepository,
	catalog *CatalogService,
	disk storage.Disk,
	box *crypt.Box,
	connect Connector,
	initial table.Credentials,
) *SheetsConfigService {
	if connect == nil {
		connect = SheetsConnector
	}
	return &SheetsConfigService{
		store:   store,
		repo:    repo,
		catalog: catalog,
		disk:    disk,
		box:     box,
		connect: connect,
		creds:   table.Credentials{}.Merge(initial),
	}
}

// Load merges persisted credentials over the initial ones and returns the
// result. A missing file is not an error.
func (s *SheetsConfigService) Load(ctx context.Context) (table.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.box == nil || s.disk == nil || !s.disk.Exists(ctx, CredentialsPath) {
		return s.creds, nil
	}
	sealed, err := s.disk.Get(ctx, CredentialsPath)
	if err != nil {
		return s.creds, fmt.Errorf("sheets config: read: %w", err)
	}
	var saved table.Credentials
	if err := s.box.OpenJSON(string(sealed), &saved); err != nil {
		return s.creds, fmt.Errorf("sheets config: open: %w", err)
	}
	s.creds = s.creds.Merge(saved)
	return s.creds, nil
}

// Credentials returns the current credentials, private key included.
func (s *SheetsConfigService) Credentials() table.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

func (s *SheetsConfigService) Config() SheetsConfig {
	c := s.Credentials()
	return SheetsConfig{
		SheetID:             c.SheetID,
		ServiceAccountEmail: c.ServiceAccountEmail,
		IsConnected:         c.Complete(),
	}
}

// Status pings the live store.
func (s *SheetsConfigService) Status(ctx context.Context) ConnectionStatus {
	if s.store.Current() == nil {
		return failed(s.missing(s.Credentials()))
	}
	title, err := s.repo.Ping(ctx)
	if err != nil {
		return failed(err)
	}
	return ConnectionStatus{Success: true, Title: title}
}

// Update merges update into the credentials and connects. On success the
// new backend replaces the live store, its tabs are created, the
// credentials are persisted and the cache is invalidated. On failure the
// live store is left as it was.
func (s *SheetsConfigService) Update(ctx context.Context, update table.Credentials) ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.creds.Merge(update)
	backend, title, err := s.open(ctx, creds)
	if err != nil {
		logger.WithCtx(ctx).Warn("sheets config rejected", "sheet_id", creds.SheetID, "error", err)
		return failed(err)
	}

	s.store.Set(backend)
	s.creds = creds
	if err := s.repo.EnsureSchema(ctx); err != nil {
		logger.WithCtx(ctx).Error("sheets schema setup failed", "error", err)
	}
	if err := s.persist(ctx, creds); err != nil {
		logger.WithCtx(ctx).Error("sheets credentials not persisted", "error", err)
	}
	s.catalog.Invalidate()

	logger.WithCtx(ctx).Info("sheets connection updated", "sheet_id", creds.SheetID, "title", title)
	return ConnectionStatus{Success: true, Title: title}
}

// Test tries update merged over the current credentials without keeping
// anything.
func (s *SheetsConfigService) Test(ctx context.Context, update table.Credentials) ConnectionStatus {
	creds := s.Credentials().Merge(update)
	_, title, err := s.open(ctx, creds)
	if err != nil {
		return failed(err)
	}
	return ConnectionStatus{Success: true, Title: title}
}

func (s *SheetsConfigService) open(ctx context.Context, creds table.Credentials) (table.Backend, string, error) {
	if !creds.Complete() {
		return nil, "", s.missing(creds)
	}
	backend, err := s.connect(ctx, creds)
	if err != nil {
		return nil, "", err
	}
	title, err := backend.Ping(ctx)
	if err != nil {
		return nil, "", err
	}
	return backend, title, nil
}

func (s *SheetsConfigService) missing(c table.Credentials) error {
	return fmt.Errorf("%w: missing credentials: %s", ErrNotConnected, strings.Join(c.Missing(), ", "))
}

func (s *SheetsConfigService) persist(ctx context.Context, creds table.Credentials) error {
	if s.box == nil || s.disk == nil {
		return nil
	}
	sealed, err := s.box.SealJSON(creds)
	if err != nil {
		return err
	}
	return s.disk.Put(ctx, CredentialsPath, []byte(sealed))
}

func failed(err error) ConnectionStatus {
	return ConnectionStatus{Success: false, Error: err.Error()}
}
