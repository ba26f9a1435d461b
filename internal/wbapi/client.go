package wbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of an upstream response is read.
const maxBody = 32 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// API selects one of the two upstream services.
type API int

const (
	Advert API = iota
	Analytics
)

func (a API) String() string {
	if a == Analytics {
		return "analytics"
	}
	return "advert"
}

// NewHTTPClient returns the pooled, traced client shared by every Factory call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Factory holds upstream endpoints and the shared connection pool. It never
// stores a credential; ForKey hands out a Client scoped to one API key.
type Factory struct {
	httpc        HTTPClient
	advertURL    string
	analyticsURL string
	metrics      observability.MetricsRegistry
}

func NewFactory(httpc HTTPClient, advertURL, analyticsURL string, metrics observability.MetricsRegistry) *Factory {
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	return &Factory{httpc: httpc, advertURL: advertURL, analyticsURL: analyticsURL, metrics: metrics}
}

// ForKey returns a client that authenticates every call with apiKey.
func (f *Factory) ForKey(apiKey string) *Client {
	return &Client{f: f, key: apiKey}
}

// Client issues authenticated calls for a single API key. It lives for one
// inbound request.
type Client struct {
	f   *Factory
	key string
}

// Get calls path on api and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, api API, path string, query url.Values) (any, error) {
	return c.do(ctx, http.MethodGet, api, path, query, nil)
}

// Post marshals body as JSON, posts it to path on api and returns the decoded
// JSON response.
func (c *Client) Post(ctx context.Context, api API, path string, query url.Values, body any) (any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Endpoint: path, Err: fmt.Errorf("encode body: %w", err)}
	}
	return c.do(ctx, http.MethodPost, api, path, query, b)
}

func (c *Client) baseURL(api API) string {
	if api == Analytics {
		return c.f.analyticsURL
	}
	return c.f.advertURL
}

func (c *Client) do(ctx context.Context, method string, api API, path string, query url.Values, body []byte) (out any, err error) {
	start := time.Now()
	status := 0
	defer func() {
		c.f.metrics.IncrementUpstreamCalls(path, status)
		c.f.metrics.RecordUpstreamLatency(path, time.Since(start))
	}()

	u := c.baseURL(api) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Endpoint: path, Err: err}
	}
	req.Header.Set("Authorization", c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.f.httpc.Do(req)
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: b, Endpoint: path}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &UpstreamError{Status: http.StatusInternalServerError, Body: b, Endpoint: path, Err: fmt.Errorf("decode body: %w", err)}
	}
	return out, nil
}
