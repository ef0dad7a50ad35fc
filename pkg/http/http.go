// Package http is the outgoing HTTP client of the storefront: a fluent
// request builder with a per-attempt timeout, retries with doubling
// backoff and a capped response body.
//
//	resp, err := http.Get(baseURL + "/data").
//	    WithContext(ctx).
//	    Timeout(10 * time.Second).
//	    Retry(2, 500*time.Millisecond).
//	    Send()
//	if err == nil {
//	    err = resp.Throw()
//	}
//	var snap models.Snapshot
//	err = resp.JSON(&snap)
//
// Transport errors and 5xx responses are retried; 4xx responses are
// returned to the caller as they are. A request ID in the context is
// forwarded as X-Request-ID.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/reqid"
)

// UserAgent is sent with every request.
const UserAgent = "agromart-storefront/1"

// DefaultMaxBody caps how much of a response body is read. A full catalog
// export of 10000 products stays well below it.
const DefaultMaxBody = 32 << 20

// DefaultClient is shared by every request that does not name its own.
var DefaultClient = &gohttp.Client{
	Transport: &gohttp.Transport{
		Proxy:               gohttp.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// StatusError is returned by Throw for a non-2xx response. Body holds at
// most the first 200 bytes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: request failed with status %d: %s", e.Code, e.Body)
}

// Request is a fluent request builder. It is not safe for concurrent use.
type Request struct {
	ctx       context.Context
	client    *gohttp.Client
	method    string
	url       string
	header    gohttp.Header
	body      any
	timeout   time.Duration
	attempts  int
	retryWait time.Duration
	maxBody   int64
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

func newRequest(method, url string) *Request {
	h := gohttp.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", UserAgent)
	return &Request{
		ctx:       context.Background(),
		client:    DefaultClient,
		method:    method,
		url:       url,
		header:    h,
		timeout:   30 * time.Second,
		attempts:  1,
		retryWait: 500 * time.Millisecond,
		maxBody:   DefaultMaxBody,
	}
}

func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Client sends through c; nil keeps DefaultClient.
func (r *Request) Client(c *gohttp.Client) *Request {
	if c != nil {
		r.client = c
	}
	return r
}

// MaxBody caps the bytes read from the response; larger bodies fail.
func (r *Request) MaxBody(n int64) *Request {
	r.maxBody = n
	return r
}

// Body sets a value to send as JSON.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout bounds each attempt, not the whole Send.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry makes up to attempts tries, waiting wait, 2*wait, 4*wait... between them.
func (r *Request) Retry(attempts int, wait time.Duration) *Request {
	if attempts < 1 {
		attempts = 1
	}
	r.attempts = attempts
	r.retryWait = wait
	return r
}

// WithContext bounds every attempt and the backoff waits.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send runs the request. It returns an error only when no response was
// received (or the last one was a 5xx); any other status is left to Throw.
func (r *Request) Send() (*Response, error) {
	payload, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	var (
		resp    *Response
		lastErr error
	)
	for attempt := 1; attempt <= r.attempts; attempt++ {
		resp, lastErr = r.do(payload)
		if lastErr == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if lastErr == nil {
			lastErr = resp.Throw()
		}
		if attempt == r.attempts {
			break
		}

		wait := r.retryWait << (attempt - 1)
		logger.WithCtx(r.ctx).Warn("http: retrying",
			"method", r.method, "url", r.url, "attempt", attempt, "wait", wait, "error", lastErr)
		if err := sleep(r.ctx, wait); err != nil {
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, err)
		}
	}

	if resp != nil && errors.As(lastErr, new(*StatusError)) {
		return resp, nil
	}
	return nil, fmt.Errorf("http: %s %s failed after %d attempt(s): %w", r.method, r.url, r.attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Request) encodeBody() ([]byte, error) {
	if r.body == nil {
		return nil, nil
	}
	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, fmt.Errorf("http: encode body: %w", err)
	}
	return b, nil
}

func (r *Request) do(payload []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	req.Header = r.header.Clone()
	reqid.Propagate(r.ctx, req.Header)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, r.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	if int64(len(raw)) > r.maxBody {
		return nil, fmt.Errorf("http: response body exceeds %d bytes", r.maxBody)
	}
	return &Response{StatusCode: res.StatusCode, Headers: res.Header, Raw: raw}, nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Throw returns a *StatusError unless the status is 2xx.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	body := r.Raw
	if len(body) > 200 {
		body = body[:200]
	}
	return &StatusError{Code: r.StatusCode, Body: string(body)}
}
