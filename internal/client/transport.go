package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fulboost/fulboost-client/internal/logger"
	"github.com/fulboost/fulboost-client/internal/version"
	"github.com/google/uuid"
)

// headers sent with every request; responses must never come from a cache
var defaultHeaders = map[string]string{
	"Accept":        "application/json",
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

// request describes one call to the API. It is built per call and not retained.
type request struct {
	operation string
	method    string
	baseURL   string // overrides the client's API base URL when set
	path      string
	query     url.Values
	body      Body

	// skipSessionGuard disables the 401 handling for entry points that are not
	// made on behalf of a session (login, register, logout)
	skipSessionGuard bool

	// fallback is the error message used when neither the API nor the transport supplies one
	fallback string
}

// send performs the HTTP exchange.
//
// Any response with a status in [200,500) is returned as a *Response, 4xx included.
// Network failures and statuses >= 500 (or < 200) are returned as a *ClientError.
// A 401 evicts the token that was sent and redirects to the login route before returning.
func (c *Client) send(ctx context.Context, req *request) (*Response, error) {
	base := req.baseURL
	if base == "" {
		base = c.apiBaseURL
	}

	u, err := url.Parse(base + req.path)
	if err != nil {
		return nil, NewClientInternalError(err, "building request url")
	}
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var (
		bodyReader  io.Reader
		contentType string
	)
	if req.body != nil {
		bodyReader, contentType, err = req.body.Encode()
		if err != nil {
			return nil, NewClientInternalError(err, "encoding request body")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), bodyReader)
	if err != nil {
		return nil, NewClientInternalError(err, "creating request")
	}

	for k, v := range defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("User-Agent", version.UserAgent())
	httpReq.Header.Set(logger.RequestIDHeader, uuid.NewString())

	token, err := c.session.Token()
	if err != nil {
		return nil, NewClientInternalError(err, "reading session token")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewClientConnectionError(err, req.fallback)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewClientConnectionError(err, req.fallback)
	}

	resp := newResponse(res, body)

	if resp.StatusCode == http.StatusUnauthorized && !req.skipSessionGuard {
		c.sessionRejected(ctx, token)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 500 {
		return nil, NewClientApiError(resp, req.fallback)
	}

	return resp, nil
}

// call is the single path every operation goes through: send, then turn any
// non-2xx response into a *ClientError so that no operation branches on status.
func (c *Client) call(ctx context.Context, req *request) (*Response, error) {
	ctx = logger.ContextWithLogAttrs(ctx, slog.String("operation", req.operation))

	res, err := c.send(ctx, req)
	if err != nil {
		return nil, c.failed(ctx, req.operation, err)
	}

	if !res.OK() {
		return nil, c.failed(ctx, req.operation, NewClientApiError(res, req.fallback))
	}

	return res, nil
}

// failed logs a failed operation and returns the normalized error
func (c *Client) failed(ctx context.Context, operation string, err error) *ClientError {
	ce := normalize(err, "")
	c.logger.LogAttrs(ctx, slog.LevelError, "api call failed",
		slog.String("operation", operation),
		slog.String("code", string(ce.Code)),
		slog.Int("status", ce.StatusCode),
		slog.String("error", ce.LogMessage),
	)
	return ce
}

// sessionRejected handles a 401: the token that was sent is evicted unless a newer
// login replaced it in the meantime, and the user is sent to the login route once.
func (c *Client) sessionRejected(ctx context.Context, sentToken string) {
	evicted, err := c.session.InvalidateIf(sentToken)
	if err != nil {
		c.logger.ErrorContext(ctx, "could not clear rejected session token", slog.String("error", err.Error()))
		return
	}
	if !evicted {
		c.logger.InfoContext(ctx, "stale token rejected, a newer session is active")
		return
	}

	c.logger.WarnContext(ctx, "session rejected by the API, signing out", slog.String("route", c.loginRoute))
	c.navigator.Navigate(c.loginRoute)
}
