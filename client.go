// Package twitter is a client for the X/Twitter private web API acting on
// behalf of an authenticated session. Read operations go straight over HTTP;
// mutating operations are driven through a fingerprint-masked browser,
// because the platform's anti-automation checks block direct HTTP writes
// but not reads. Both transports share one credential store and feed rotated
// CSRF tokens back into it.
package twitter

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go-twitter-agent/browser"
)

// Client is the single entry point for all operations. It dispatches each
// one to the direct transport (reads) or the browser session (writes) and
// returns mapped domain objects.
type Client struct {
	cfg     ClientConfig
	creds   *Credentials
	direct  *directTransport
	session *browser.Session
}

// NewClient creates a fully-wired client. The browser is not launched here;
// it starts lazily on the first write operation.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	creds, err := NewCredentials(cfg.AuthToken, cfg.CT0)
	if err != nil {
		return nil, err
	}

	direct, err := newDirectTransport(cfg, creds)
	if err != nil {
		return nil, fmt.Errorf("direct transport: %w", err)
	}

	if cfg.Browser.Bearer == "" {
		cfg.Browser.Bearer = BearerToken
	}

	return &Client{
		cfg:     cfg,
		creds:   creds,
		direct:  direct,
		session: browser.NewSession(cfg.Browser, creds),
	}, nil
}

// Credentials exposes the shared credential store.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// Close tears down the browser session. Idempotent; safe to call even if no
// write operation ever ran.
func (c *Client) Close(ctx context.Context) error {
	return c.session.Close(ctx)
}
