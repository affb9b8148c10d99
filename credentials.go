package twitter

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Credentials holds the two rotating session secrets. The auth_token is
// immutable for the life of the process; the ct0 CSRF token may be replaced
// any number of times by either transport when the platform issues a newer
// value. Refresh races reconcile last-write-wins, which the platform
// tolerates (a slightly stale token is accepted once before prompting
// another refresh).
type Credentials struct {
	authToken string

	mu  sync.Mutex
	ct0 string
}

// NewCredentials validates and wraps the two session secrets.
func NewCredentials(authToken, ct0 string) (*Credentials, error) {
	if authToken == "" || ct0 == "" {
		return nil, errors.New("twitter: both auth_token and ct0 are required")
	}
	return &Credentials{authToken: authToken, ct0: ct0}, nil
}

// Get returns a snapshot of (auth_token, ct0).
func (c *Credentials) Get() (authToken, ct0 string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authToken, c.ct0
}

// RefreshCT0 replaces the ct0 token if it differs from the current value.
// Returns true when the token actually changed. The log record is the
// operator's signal that the session is drifting.
func (c *Credentials) RefreshCT0(ct0 string) bool {
	if ct0 == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ct0 == c.ct0 {
		return false
	}
	c.ct0 = ct0
	slog.Info("ct0 refreshed", slog.String("prefix", ct0[:min(8, len(ct0))]))
	return true
}

// RotateCT0 mints a fresh random ct0 and installs it. Used when the platform
// rejects the current token without supplying a replacement cookie.
func (c *Credentials) RotateCT0() string {
	ct0 := GenerateCT0()
	c.mu.Lock()
	c.ct0 = ct0
	c.mu.Unlock()
	slog.Info("ct0 rotated", slog.String("prefix", ct0[:8]))
	return ct0
}

// GenerateCT0 generates a random 32-byte hex string for use as a ct0 CSRF token.
func GenerateCT0() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000000000000000000000000000000000000000000000000000"
	}
	return hex.EncodeToString(b)
}

// extractCT0FromHeaders parses the ct0 value from a set-cookie response header.
func extractCT0FromHeaders(headers map[string]string) string {
	cookie := headers["set-cookie"]
	if cookie == "" {
		return ""
	}
	for _, part := range strings.Split(cookie, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "ct0=") {
			if val := strings.TrimPrefix(part, "ct0="); val != "" {
				return val
			}
		}
	}
	return ""
}
