package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/bfadmin/internal/common"
	"github.com/dmitrijs2005/bfadmin/internal/netx"
)

const (
	DefaultRelayAttemptTimeout = 5 * time.Second
	DefaultRelayMaxAttempts    = 3
	relayPause                 = 50 * time.Millisecond
)

var errRelayExhausted = errors.New("no relay responded")

// RelayPolicy is the ordered list of relay templates tried once each when
// the backend cannot be reached directly. Templates contain {url} where the
// escaped target goes.
//
// Relays are third-party hosts, so the Authorization header is stripped from
// relayed requests unless ForwardCredentials is set. Without it only
// anonymous calls (login, pricing) can succeed over a relay.
type RelayPolicy struct {
	Endpoints          []string
	AttemptTimeout     time.Duration
	MaxAttempts        int
	ForwardCredentials bool
}

func (p RelayPolicy) Enabled() bool {
	return len(p.Endpoints) > 0 && p.MaxAttempts != 0
}

// candidates returns the endpoints within the attempt budget.
func (p RelayPolicy) candidates() []string {
	n := p.MaxAttempts
	if n <= 0 || n > len(p.Endpoints) {
		n = len(p.Endpoints)
	}
	return p.Endpoints[:n]
}

func (p RelayPolicy) attemptTimeout() time.Duration {
	if p.AttemptTimeout <= 0 {
		return DefaultRelayAttemptTimeout
	}
	return p.AttemptTimeout
}

// relayFailed reports whether a relay answered with a gateway error of its own.
func relayFailed(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// do tries every candidate in order and returns the first usable response.
// The response body stays readable after do returns: each attempt's timeout
// is released only once the body is closed.
func (p RelayPolicy) do(ctx context.Context, c *HTTPClient, method, target string, payload []byte, h http.Header) (*http.Response, error) {
	candidates := p.candidates()
	if len(candidates) == 0 {
		return nil, errRelayExhausted
	}

	if !p.ForwardCredentials && h.Get(common.AuthorizationHeaderName) != "" {
		h = h.Clone()
		h.Del(common.AuthorizationHeaderName)
	}

	b := retry.WithMaxRetries(uint64(len(candidates)-1), retry.NewConstant(relayPause))

	var (
		resp    *http.Response
		attempt int
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		endpoint := candidates[attempt]
		attempt++

		actx, cancel := context.WithTimeout(ctx, p.attemptTimeout())
		r, err := c.send(actx, c.http, method, netx.RelayURL(endpoint, target), payload, h)
		if err != nil {
			cancel()
			c.log.Debug(ctx, "relay attempt failed", "relay", endpoint, "error", err)
			return retry.RetryableError(err)
		}
		if relayFailed(r.StatusCode) {
			r.Body.Close()
			cancel()
			c.log.Debug(ctx, "relay attempt failed", "relay", endpoint, "status", r.StatusCode)
			return retry.RetryableError(fmt.Errorf("relay %s: HTTP %d", endpoint, r.StatusCode))
		}
		r.Body = &cancelOnClose{ReadCloser: r.Body, cancel: cancel}
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errRelayExhausted, err)
	}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
