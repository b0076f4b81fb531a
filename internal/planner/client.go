package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client requests a candidate weekly plan from the generation service. The
// returned bytes are the raw response body; callers validate it with
// ValidatePlan before trusting anything in it.
type Client interface {
	GeneratePlan(ctx context.Context, req GenerationRequest) ([]byte, error)
}

// HTTPClient is the production Client, a single JSON POST to a configured
// endpoint.
type HTTPClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewHTTPClient builds a client with a bounded request timeout. Generation is
// a slow workload, so the timeout should be generous but is never unbounded.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &HTTPClient{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GeneratePlan POSTs the generation request and returns the raw response
// body. Transport failures, timeouts, and non-2xx statuses all surface as
// *UpstreamError.
func (c *HTTPClient) GeneratePlan(ctx context.Context, genReq GenerationRequest) ([]byte, error) {
	payload, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
