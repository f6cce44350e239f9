package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/logging"
	"github.com/dmitrijs2005/bfadmin/internal/netx"
)

const contentTypeJSON = "application/json"

// HTTPClient is the REST/JSON implementation of Client.
type HTTPClient struct {
	baseURL      string
	secureOrigin bool
	tokens       TokenStore
	relay        RelayPolicy
	http         *http.Client
	log          logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every direct request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSecureOrigin marks the client as running on a secure origin, which
// arms the relay fallback for plain-http backends.
func WithSecureOrigin(secure bool) Option {
	return func(c *HTTPClient) { c.secureOrigin = secure }
}

func WithRelay(p RelayPolicy) Option {
	return func(c *HTTPClient) { c.relay = p }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client bound to baseURL. The base URL is fixed for
// the lifetime of the client; a trailing slash is dropped.
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do sends a request to path (relative to the base URL). body may be nil,
// a []byte, a string or any JSON-marshalable value; headers override the
// JSON default. A JSON response is decoded into any, anything else is
// returned as a string.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any, headers http.Header) (any, error) {
	raw, ct, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}
	if !isJSON(ct) {
		return string(raw), nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return v, nil
}

// DoJSON is Do with the response decoded into out. A nil out discards the
// response body.
func (c *HTTPClient) DoJSON(ctx context.Context, method, path string, body, out any) error {
	raw, ct, err := c.do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !isJSON(ct) {
		return fmt.Errorf("decode %s %s: unexpected content type %q", method, path, ct)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, headers http.Header) ([]byte, string, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s %s: %w", method, path, err)
	}

	h := http.Header{}
	h.Set("Content-Type", contentTypeJSON)
	for k, vs := range headers {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if h.Get(common.RequestIDHeaderName) == "" {
		h.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	token, ok, err := c.tokens.Get(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("read token: %w", err)
	}
	if ok {
		h.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	target := c.baseURL + path
	log := c.log.With("method", method, "path", path, "request_id", h.Get(common.RequestIDHeaderName))
	started := time.Now()

	resp, err := c.send(ctx, c.http, method, target, payload, h)
	if err != nil {
		if !c.relayArmed(ctx) {
			log.Debug(ctx, "request failed", "error", err)
			return nil, "", newNetworkError(c.baseURL, err)
		}
		log.Warn(ctx, "backend unreachable, trying relays", "error", err)
		var rerr error
		resp, rerr = c.relay.do(ctx, c, method, target, payload, h)
		if rerr != nil {
			log.Warn(ctx, "relays failed", "error", rerr)
			return nil, "", newNetworkError(c.baseURL, err)
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", newNetworkError(c.baseURL, err)
	}
	ct := resp.Header.Get("Content-Type")
	log.Debug(ctx, "request finished", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", newHTTPError(resp.StatusCode, errorMessage(raw))
	}
	return raw, ct, nil
}

func (c *HTTPClient) send(ctx context.Context, hc *http.Client, method, target string, payload []byte, h http.Header) (*http.Response, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	req.Header = h.Clone()
	return hc.Do(req)
}

// relayArmed reports whether a failed direct request may be retried through
// relays: mixed-content condition, relays configured, caller still waiting.
func (c *HTTPClient) relayArmed(ctx context.Context) bool {
	return ctx.Err() == nil &&
		c.secureOrigin &&
		netx.IsPlainHTTP(c.baseURL) &&
		c.relay.Enabled()
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == contentTypeJSON || strings.HasSuffix(mt, "+json")
}

// errorMessage extracts message, then error, from a JSON error body.
func errorMessage(raw []byte) string {
	var b errorBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return ""
	}
	return b.text()
}
