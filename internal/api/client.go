// Package api is the client for the planner's REST backend.
//
// Every call is a single request with no retry, backoff, or deduplication.
// Callers branch only on the envelope's success flag: a failed envelope, a
// non-JSON body or a transport failure comes back as an error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

// BasePath prefixes every endpoint.
const BasePath = "/api/v1"

// RequestIDHeader carries a per-request id for correlating client and
// server logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to one backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *log.Logger
	schema  *jsonschema.Schema

	token   string
	timeout time.Duration
	base    http.RoundTripper
	strict  bool
}

// Option configures a Client.
type Option func(*Client)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTransport replaces the base round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// WithStrictSchema validates dashboard payloads against the embedded schema
// before decoding them.
func WithStrictSchema(on bool) Option {
	return func(c *Client) { c.strict = on }
}

// New builds a client for the backend at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: empty base url")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: u,
		log:     log.New(io.Discard),
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	var rt http.RoundTripper = otelhttp.NewTransport(c.base)
	if c.token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	c.http = &http.Client{Transport: rt, Timeout: c.timeout}

	if c.strict {
		s, err := dashboardSchema()
		if err != nil {
			return nil, err
		}
		c.schema = s
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + BasePath + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// response is what send hands back for the caller to decode.
type response struct {
	status int
	body   []byte
	reqID  string
}

// send performs one request with the JSON and request-id headers set and
// logs the outcome. It does not interpret the body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (response, error) {
	r := response{reqID: uuid.NewString()}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return r, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return r, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, r.reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "request_id", r.reqID, "err", err)
		return r, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	r.status = resp.StatusCode
	r.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return r, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.log.Debug("api call",
		"method", method,
		"path", path,
		"status", r.status,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", r.reqID,
	)
	return r, nil
}

// do performs one request and unwraps the envelope. When out is non-nil and
// the envelope carries data, the data is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (model.Envelope, error) {
	var env model.Envelope

	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return env, err
	}

	if err := json.Unmarshal(resp.body, &env); err != nil {
		apiErr := &Error{
			Status:    resp.status,
			Message:   fmt.Sprintf("unexpected response (%s)", http.StatusText(resp.status)),
			RequestID: resp.reqID,
		}
		c.log.Error("undecodable response", "method", method, "path", path, "status", resp.status, "request_id", resp.reqID)
		return env, apiErr
	}
	if !env.Success {
		apiErr := &Error{Status: resp.status, Message: env.Error, RequestID: resp.reqID}
		if apiErr.Message == "" {
			apiErr.Message = env.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.status)
		}
		c.log.Warn("api error", "method", method, "path", path, "status", resp.status, "error", apiErr.Message, "request_id", resp.reqID)
		return env, apiErr
	}

	if out != nil && env.HasData() {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return env, nil
}
