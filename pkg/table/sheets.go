package table

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oauthjwt "golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// Credentials identify a spreadsheet and the service account allowed to edit it.
type Credentials struct {
	SheetID             string `json:"sheetId"`
	ServiceAccountEmail string `json:"serviceAccountEmail"`
	PrivateKey          string `json:"privateKey"`
}

// Missing names the fields that are still empty, in display form.
func (c Credentials) Missing() []string {
	var out []string
	if c.SheetID == "" {
		out = append(out, "Sheet ID")
	}
	if c.ServiceAccountEmail == "" {
		out = append(out, "Email")
	}
	if c.PrivateKey == "" {
		out = append(out, "Private Key")
	}
	return out
}

func (c Credentials) Complete() bool { return len(c.Missing()) == 0 }

// Merge overlays the non-empty fields of update. Literal "\n" in the key is expanded.
func (c Credentials) Merge(update Credentials) Credentials {
	if update.SheetID != "" {
		c.SheetID = update.SheetID
	}
	if update.ServiceAccountEmail != "" {
		c.ServiceAccountEmail = update.ServiceAccountEmail
	}
	if update.PrivateKey != "" {
		c.PrivateKey = strings.ReplaceAll(update.PrivateKey, `\n`, "\n")
	}
	return c
}

// Sheets is a Backend over one Google spreadsheet.
type Sheets struct {
	srv     *sheets.Service
	sheetID string
	limiter *rate.Limiter
}

// SheetsOption tweaks the client, mostly for tests.
type SheetsOption func(*sheetsConfig)

type sheetsConfig struct {
	opts    []option.ClientOption
	limiter *rate.Limiter
}

// WithClientOptions replaces the service-account authentication, e.g. with
// option.WithHTTPClient and option.WithEndpoint against a fake server.
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(c *sheetsConfig) { c.opts = opts }
}

// WithRateLimit caps outgoing API calls. The default stays under the
// per-user Sheets quota of 60 requests a minute.
func WithRateLimit(l *rate.Limiter) SheetsOption {
	return func(c *sheetsConfig) { c.limiter = l }
}

// NewSheets builds a Sheets backend. Missing credentials yield ErrNotConfigured.
func NewSheets(ctx context.Context, creds Credentials, opts ...SheetsOption) (*Sheets, error) {
	cfg := sheetsConfig{limiter: rate.NewLimiter(rate.Every(time.Second), 10)}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.opts == nil {
		if !creds.Complete() {
			return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(creds.Missing(), ", "))
		}
		jwtCfg := &oauthjwt.Config{
			Email:      creds.ServiceAccountEmail,
			PrivateKey: []byte(creds.PrivateKey),
			Scopes:     []string{sheets.SpreadsheetsScope},
			TokenURL:   googleTokenURL,
		}
		cfg.opts = []option.ClientOption{option.WithTokenSource(jwtCfg.TokenSource(ctx))}
	} else if creds.SheetID == "" {
		return nil, fmt.Errorf("%w: missing Sheet ID", ErrNotConfigured)
	}

	srv, err := sheets.NewService(ctx, cfg.opts...)
	if err != nil {
		return nil, unavailable("connect", "", err)
	}

	return &Sheets{srv: srv, sheetID: creds.SheetID, limiter: cfg.limiter}, nil
}

func (s *Sheets) wait(ctx context.Context, op, tab string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return unavailable(op, tab, err)
	}
	return nil
}

func (s *Sheets) Tabs(ctx context.Context) ([]string, error) {
	if err := s.wait(ctx, "tabs", ""); err != nil {
		return nil, err
	}
	doc, err := s.srv.Spreadsheets.Get(s.sheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, unavailable("tabs", "", err)
	}
	out := make([]string, 0, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			out = append(out, sh.Properties.Title)
		}
	}
	return out, nil
}

func (s *Sheets) AddTabs(ctx context.Context, titles ...string) error {
	if len(titles) == 0 {
		return nil
	}
	if err := s.wait(ctx, "add tabs", ""); err != nil {
		return err
	}
	reqs := make([]*sheets.Request, 0, len(titles))
	for _, t := range titles {
		reqs = append(reqs, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: t}},
		})
	}
	_, err := s.srv.Spreadsheets.BatchUpdate(s.sheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return unavailable("add tabs", "", err)
	}
	return nil
}

func (s *Sheets) Read(ctx context.Context, tab string) ([][]string, error) {
	if err := s.wait(ctx, "read", tab); err != nil {
		return nil, err
	}
	vr, err := s.srv.Spreadsheets.Values.Get(s.sheetID, tab).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			return nil, nil
		}
		return nil, unavailable("read", tab, err)
	}
	rows := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		rows[i] = make([]string, len(r))
		for j, cell := range r {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

func (s *Sheets) Replace(ctx context.Context, tab string, rows [][]string) error {
	if err := s.wait(ctx, "clear", tab); err != nil {
		return err
	}
	if _, err := s.srv.Spreadsheets.Values.Clear(s.sheetID, tab, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return unavailable("clear", tab, err)
	}
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = make([]interface{}, len(r))
		for j, cell := range r {
			values[i][j] = cell
		}
	}

	if err := s.wait(ctx, "update", tab); err != nil {
		return err
	}
	_, err := s.srv.Spreadsheets.Values.Update(s.sheetID, tab+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return unavailable("update", tab, err)
	}
	return nil
}

func (s *Sheets) Ping(ctx context.Context) (string, error) {
	if err := s.wait(ctx, "ping", ""); err != nil {
		return "", err
	}
	doc, err := s.srv.Spreadsheets.Get(s.sheetID).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", unavailable("ping", "", err)
	}
	if doc.Properties == nil {
		return "", nil
	}
	return doc.Properties.Title, nil
}

// isMissingRange recognises the 400 the API returns for a tab that does not exist.
func isMissingRange(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range")
}
