// Package client talks to the platform's REST API. Every call goes through
// an entry of the endpoint catalog, which decides whether the call blocks.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/foxzi/lure/internal/metrics"
	"github.com/foxzi/lure/internal/session"
)

// DefaultTimeout bounds a single request
const DefaultTimeout = 30 * time.Second

// Client is the platform API client
type Client struct {
	http    *resty.Client
	session *session.Session
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithInsecureSkipVerify disables TLS certificate verification
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if skip {
			c.http.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.http.SetHeader("User-Agent", ua)
		}
	}
}

// WithMetrics records every request in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client authenticated by sess
func New(sess *session.Session, opts ...Option) (*Client, error) {
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(sess.BaseURL+"/api").
			SetAuthToken(sess.APIKey).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "lure").
			SetTimeout(DefaultTimeout),
		session: sess,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Session returns the session the client authenticates with
func (c *Client) Session() *session.Session {
	return c.session
}

// call issues ep with an optional JSON body and decodes the response into T
func call[T any](ctx context.Context, c *Client, ep Endpoint, id any, body any) *Future[T] {
	return callPath[T](ctx, c, ep, ep.URL(id), body)
}

func callPath[T any](ctx context.Context, c *Client, ep Endpoint, path string, body any) *Future[T] {
	return dispatch(ep.Mode, func() (T, error) {
		var out T
		req := c.http.R()
		if body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(body)
		}
		err := c.do(ctx, ep, path, req, &out)
		return out, err
	})
}

// upload issues ep as a multipart form with a single file field
func upload[T any](ctx context.Context, c *Client, ep Endpoint, field, filename string, r io.Reader) *Future[T] {
	return dispatch(ep.Mode, func() (T, error) {
		var out T
		req := c.http.R().SetFileReader(field, filename, r)
		err := c.do(ctx, ep, ep.URL(nil), req, &out)
		return out, err
	})
}

func (c *Client) do(ctx context.Context, ep Endpoint, path string, req *resty.Request, out any) error {
	reqID := uuid.NewString()
	req.SetContext(ctx).SetHeader("X-Request-ID", reqID)

	end := c.metrics.Begin()
	defer end()

	start := time.Now()
	resp, err := req.Execute(ep.Method, path)
	if err != nil {
		c.metrics.ObserveError(ep.Name, metrics.KindTransport)
		c.logger.Warn("api request failed",
			"endpoint", ep.Name,
			"request_id", reqID,
			"error", err,
		)
		return &TransportError{Endpoint: ep.Name, Err: err}
	}

	duration := time.Since(start)
	status := resp.StatusCode()
	c.metrics.ObserveRequest(ep.Name, ep.Method, status, duration)
	c.logger.Debug("api request",
		"endpoint", ep.Name,
		"method", ep.Method,
		"path", path,
		"status", status,
		"duration", duration,
		"request_id", reqID,
	)

	if status >= 400 {
		return decodeAPIError(ep, status, resp.Body())
	}

	body := resp.Body()
	if out == nil || status == http.StatusNoContent || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.ObserveError(ep.Name, metrics.KindDecode)
		return fmt.Errorf("decode %s response: %w", ep.Name, err)
	}
	return nil
}
