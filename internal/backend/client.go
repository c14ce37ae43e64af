// Package backend is the HTTP adapter to the external Sales/Products/Clients
// service. It is the only package that knows the service's URLs and JSON
// shapes; everything above it works with domain types and the error taxonomy
// (TransportError, NotFoundError).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the external service. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a client for the service rooted at baseURL (e.g.
// "http://localhost:4000/api"). Requests are traced via otelhttp.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// do issues one JSON request. out may be nil when the response body does not
// matter. notFound names the resource kind/id used for 404 mapping; an empty
// kind turns 404 into a generic status error instead.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, notFoundKind, notFoundID string) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFoundKind != "" {
		return &domain.NotFoundError{Kind: notFoundKind, ID: notFoundID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: backend returned status %d: %s", op, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Some write endpoints answer with an empty body; not an error.
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A mangled body is as useless as no answer; same taxonomy.
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
