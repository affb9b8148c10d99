package twitter

import (
	"github.com/anatolykoptev/go-twitter-agent/browser"
)

// MaxTweetLength is the platform's length bound for a single post. The
// client assumes callers enforce it before dispatch; text at or under this
// bound is passed to the compose surface verbatim.
const MaxTweetLength = 280

// ClientConfig holds all configuration for the client.
type ClientConfig struct {
	// AuthToken is the long-lived session cookie value. Required.
	AuthToken string

	// CT0 is the CSRF token cookie value captured alongside AuthToken.
	// Required at construction; rotated freely afterwards.
	CT0 string

	// Proxy is an optional proxy URL for direct API requests.
	Proxy string

	// UserAgent overrides the default browser identification string for
	// both transports.
	UserAgent string

	// Browser configures the write-path browser session.
	Browser browser.Config
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Browser.UserAgent == "" {
		cfg.Browser.UserAgent = cfg.UserAgent
	}
	cfg.Browser.Defaults()
}
