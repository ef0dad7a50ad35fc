// Package storefront is the client side of the catalog: a tiered data cache
// (memory, persistent key/value store, GET /api/data), the cart, the action
// limiter and the WhatsApp checkout.
//
// Everything the storefront persists lives in a kv.Store under these keys:
//
//	agromart_data          last accepted catalog snapshot
//	agromart_cart          cart lines
//	agro_cooldown_<type>   last allowed action, unix ms
//	agro_history_<type>    allowed actions inside the window, unix ms
package storefront

import (
	"context"
	"fmt"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/http"
)

const (
	DataKey = "agromart_data"
	CartKey = "agromart_cart"
)

// Fetcher loads the catalog from the server.
type Fetcher interface {
	Fetch(ctx context.Context) (models.Snapshot, error)
}

// HTTPFetcher calls GET <base>/data.
type HTTPFetcher struct {
	baseURL string
	timeout time.Duration
	client  *gohttp.Client
}

// NewHTTPFetcher fetches from baseURL, e.g. "http://localhost:3000/api".
// A nil client uses the shared pooled client.
func NewHTTPFetcher(baseURL string, timeout time.Duration, client *gohttp.Client) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{baseURL: baseURL, timeout: timeout, client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (models.Snapshot, error) {
	resp, err := http.Get(f.baseURL + "/data").
		WithContext(ctx).
		Client(f.client).
		Timeout(f.timeout).
		Send()
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := resp.Throw(); err != nil {
		return models.Snapshot{}, err
	}
	var snap models.Snapshot
	if err := resp.JSON(&snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("storefront: %w", err)
	}
	return snap, nil
}
