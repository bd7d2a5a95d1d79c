// Package notesapi is the driver for the remote notes service. Every
// operation posts form-encoded fields, authenticates through the
// x-auth-token header and decodes the uniform response envelope. Transport
// failures surface as errors; contract failures (4xx envelopes) surface as
// ordinary responses so scenarios can assert on them.
package notesapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucaspdo/notes-harness/internal/errs"
	"github.com/lucaspdo/notes-harness/internal/logutil"
	"github.com/lucaspdo/notes-harness/internal/obs"
)

var log = obs.Pkg("notesapi")

const defaultTimeout = 30 * time.Second

// authHeader carries the session token on authenticated calls.
const authHeader = "x-auth-token"

// Config holds what the driver needs to reach the service.
type Config struct {
	// BaseURL is the API root, e.g. "https://practice.expandtesting.com/notes/api".
	BaseURL string
	// Timeout bounds each request. Zero means defaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Nil builds a plain client with
	// the configured timeout.
	HTTPClient *http.Client
}

// Client drives the remote notes service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New validates cfg and returns a driver.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errs.New(errs.InvalidArgument, "base URL must not be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "parse base URL", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

// TamperToken corrupts a session token so the service rejects it. The
// service treats any non-issued value as expired; a prefix keeps the rest
// of the token recognizable in logs.
func TamperToken(token string) string {
	return "@" + token
}

// do issues one request and decodes the envelope. token may be empty for
// unauthenticated calls; form may be nil for bodyless calls.
func (c *Client) do(ctx context.Context, method, path, token string, form url.Values) (Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Response{}, errs.Wrap(errs.Internal, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set(authHeader, token)
	}

	log.Debug("request",
		"method", method,
		"path", path,
		"form", logutil.RedactFormForLog(form),
		"headers", logutil.FormatHeadersForLog(req.Header),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, errs.Wrap(errs.Unavailable, method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, errs.Wrap(errs.Unavailable, "read response body", err)
	}

	out := Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		return Response{}, errs.Wrap(errs.Internal,
			"response is not an envelope: "+logutil.TruncateForLog(string(raw), 200), err)
	}

	log.Debug("response",
		"method", method,
		"path", path,
		"http_status", resp.StatusCode,
		"status", out.Status,
		"message", out.Message,
	)
	return out, nil
}
