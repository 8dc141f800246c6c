// Package api executes backend calls with automatic credential attachment
// and a one-shot refresh-and-retry on authorization failure.
//
// The session moves between three states: unauthenticated (no access token
// stored), authenticated (token attached to every call), and a transient
// refreshing state entered only while a 401-triggered refresh call is in
// flight. A successful refresh returns to authenticated; a failed one clears
// the stored credentials and lands back in unauthenticated. Refreshes are
// not coalesced: concurrent requests that each hit a 401 each run their own
// refresh sequence.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trackctl/internal/session"
)

const refreshPath = "/token/refresh/"

// Client is the authenticated request pipeline.
type Client struct {
	base  string
	http  *http.Client
	store *session.Store
	log   *zap.Logger
}

// New creates a pipeline for the given base URL. The logger may be nil.
func New(baseURL string, store *session.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:  baseURL,
		http:  &http.Client{},
		store: store,
		log:   logger,
	}
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "/projects/"
	Query  url.Values
	Body   any // JSON-encoded when non-nil

	// retried marks a request re-issued after a token refresh. It lives on
	// the descriptor itself so a single request can never trigger a second
	// refresh.
	retried bool
}

// Response is a successfully executed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Do executes req. A 401 on a not-yet-retried request triggers exactly one
// refresh followed by exactly one retry; every other error status is
// surfaced unchanged as a *StatusError, and transport errors pass through.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.retried {
		return c.refreshAndRetry(ctx, req)
	}
	if resp.StatusCode >= 400 {
		return nil, newStatusError(resp)
	}
	return resp, nil
}

// send performs a single HTTP exchange, attaching the bearer credential when
// one is stored.
func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	target := c.base + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	if token := c.store.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("request_id", requestID),
		zap.Int("status", httpResp.StatusCode),
		zap.Bool("retried", req.retried))

	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// refreshAndRetry runs the refresh protocol for a request that was rejected
// with 401. The refresh call always completes before the retry is issued.
func (c *Client) refreshAndRetry(ctx context.Context, req Request) (*Response, error) {
	refresh := c.store.RefreshToken()
	if refresh == "" {
		c.clearSession()
		return nil, ErrSessionExpired
	}

	c.log.Debug("access token rejected, refreshing", zap.String("path", req.Path))

	access, err := c.refreshAccessToken(ctx, refresh)
	if err != nil {
		c.clearSession()
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	// The refresh endpoint only rotates the access token; the refresh token
	// already held stays valid.
	if err := c.store.Establish(access, refresh); err != nil {
		return nil, err
	}

	req.retried = true
	return c.Do(ctx, req)
}

// refreshAccessToken exchanges the refresh token for a new access token.
// The call goes straight to the transport, unauthenticated, so it can never
// recurse into the retry logic.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", err
	}
	if httpResp.StatusCode >= 400 {
		return "", fmt.Errorf("refresh rejected with status %d", httpResp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("invalid refresh response: %w", err)
	}
	if result.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	c.log.Debug("refresh succeeded")
	return result.Access, nil
}

func (c *Client) clearSession() {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear session", zap.Error(err))
	}
}
