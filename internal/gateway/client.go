// Package gateway is the single outbound surface of the portal: a thin
// authenticated client for the external Condy REST API. Every call is a
// single attempt with a fixed timeout; retries are the caller's problem,
// and in practice nobody retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds how much of an upstream body is read (4 MB).
const maxResponseSize = 4 << 20

// connectivityMessage is the user-facing message for network failures.
const connectivityMessage = "Não foi possível conectar ao servidor. Tente novamente."

// MetricsRecorder is an optional interface for recording upstream call
// metrics.
type MetricsRecorder interface {
	IncUpstreamRequest(method string, statusCode int)
	ObserveUpstreamDuration(method string, seconds float64)
	IncUpstreamError(errorType string)
}

// Client issues authenticated REST calls against the upstream API.
type Client struct {
	baseURL string
	client  *http.Client
	metrics MetricsRecorder
}

// NewClient creates a Client with a fixed per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetMetrics sets the optional metrics recorder.
func (c *Client) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

type callOptions struct {
	token string
}

// Option configures a single call.
type Option func(*callOptions)

// WithToken attaches a bearer token to the call.
func WithToken(token string) Option {
	return func(o *callOptions) {
		o.token = token
	}
}

// dataEnvelope matches the upstream's `{data: ...}` success wrapper.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Do performs a single request. A JSON-encodable body may be nil; when out
// is non-nil the response body is decoded into it, unwrapping a `{data:...}`
// envelope if the upstream used one. All failures come back as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any, opts ...Option) error {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindGeneric, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Kind: KindGeneric, Message: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveUpstreamDuration(method, time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncUpstreamError(classifyUpstreamError(err))
		}
		return &Error{Kind: KindNetwork, Message: connectivityMessage}
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.IncUpstreamRequest(method, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &Error{Kind: KindNetwork, Message: connectivityMessage}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractMessage(raw)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Kind:       classifyKind(resp.StatusCode, message),
			HTTPStatus: resp.StatusCode,
			Message:    message,
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	// Unwrap `{data: ...}` when present; some endpoints return bare bodies.
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindGeneric, Message: fmt.Sprintf("decoding response: %v", err)}
	}

	return nil
}

// Forward sends a raw body (e.g. multipart upload) upstream and returns the
// response for streaming back to the browser. The caller owns the response
// body.
func (c *Client) Forward(ctx context.Context, method, path, contentType string, body io.Reader, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindGeneric, Message: fmt.Sprintf("building request: %v", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// A body-limit error comes from the caller's reader, not the
		// network; pass it through so the caller can answer 413.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, maxErr
		}
		if c.metrics != nil {
			c.metrics.IncUpstreamError(classifyUpstreamError(err))
		}
		return nil, &Error{Kind: KindNetwork, Message: connectivityMessage}
	}

	if c.metrics != nil {
		c.metrics.IncUpstreamRequest(method, resp.StatusCode)
	}

	return resp, nil
}

// extractMessage pulls a human-readable message out of the upstream error
// body. The upstream is not consistent about its shape.
func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var flat struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil {
		if flat.Message != "" {
			return flat.Message
		}
		if flat.Error != "" {
			return flat.Error
		}
	}

	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	return ""
}

// classifyUpstreamError categorizes a transport-level failure for metrics.
func classifyUpstreamError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Op == "dial" {
			return "connection_refused"
		}
		return "network"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var urlTimeout interface{ Timeout() bool }
	if errors.As(err, &urlTimeout) && urlTimeout.Timeout() {
		return "timeout"
	}
	return "other"
}
