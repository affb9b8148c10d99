package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// directTransport issues authenticated GET requests straight against the
// private API. Reads are not subject to the platform's anti-automation
// checks, so they skip the browser entirely. Each response is scanned for a
// rotated ct0 cookie, and a 403 carrying the CSRF-mismatch code earns
// exactly one retry with a refreshed token.
// requestDoer is the slice of the stealth client the transport uses; tests
// substitute a canned implementation.
type requestDoer interface {
	DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

type directTransport struct {
	client    requestDoer
	creds     *Credentials
	userAgent string
	jitter    interface{ Sleep(context.Context) error }
}

func newDirectTransport(cfg ClientConfig, creds *Credentials) (*directTransport, error) {
	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &directTransport{
		client:    bc,
		creds:     creds,
		userAgent: cfg.UserAgent,
		jitter:    stealth.DefaultJitter,
	}, nil
}

// get executes an authenticated GET and returns the raw response body.
func (d *directTransport) get(ctx context.Context, op, url string) ([]byte, error) {
	// Anti-fingerprint jitter before every call.
	if d.jitter != nil {
		if err := d.jitter.Sleep(ctx); err != nil {
			return nil, err
		}
	}

	authToken, ct0 := d.creds.Get()
	body, respHdrs, status, err := d.client.DoWithHeaderOrder("GET", url, apiHeaders(authToken, ct0, d.userAgent), nil, apiHeaderOrder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if status >= 200 && status < 300 {
		// Silently adopt a rotated ct0 even on success so the token stays
		// fresh without waiting for a rejection.
		d.creds.RefreshCT0(extractCT0FromHeaders(respHdrs))
		return body, nil
	}

	if status == 403 && isCSRFMismatch(body) {
		slog.Warn("csrf mismatch, refreshing ct0", slog.String("op", op))
		if newCT0 := extractCT0FromHeaders(respHdrs); newCT0 != "" {
			d.creds.RefreshCT0(newCT0)
		} else {
			d.creds.RotateCT0()
		}

		authToken, ct0 = d.creds.Get()
		body2, respHdrs2, status2, err2 := d.client.DoWithHeaderOrder("GET", url, apiHeaders(authToken, ct0, d.userAgent), nil, apiHeaderOrder)
		if err2 != nil {
			return nil, fmt.Errorf("%s (csrf retry): %w", op, err2)
		}
		if status2 >= 200 && status2 < 300 {
			d.creds.RefreshCT0(extractCT0FromHeaders(respHdrs2))
			return body2, nil
		}
		return nil, &RemoteRejectedError{Op: op, Status: status2, Body: string(body2)}
	}

	return nil, &RemoteRejectedError{Op: op, Status: status, Body: string(body)}
}

// graphqlGET builds the versioned query URL for a named operation and
// executes it.
func (d *directTransport) graphqlGET(ctx context.Context, operation string, variables map[string]any, fieldToggles ...map[string]any) ([]byte, error) {
	url, err := EndpointURL(operation)
	if err != nil {
		return nil, err
	}
	url = addGraphQLParams(url, variables, Endpoints[operation].Features, fieldToggles...)
	return d.get(ctx, operation, url)
}

// addGraphQLParams builds the full URL with variables, features, and optional fieldToggles.
func addGraphQLParams(url string, variables, features map[string]any, fieldToggles ...map[string]any) string {
	v, _ := json.Marshal(variables)
	f, _ := json.Marshal(features)
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	result := url + sep + "variables=" + jsonEscape(v) + "&features=" + jsonEscape(f)
	if len(fieldToggles) > 0 && fieldToggles[0] != nil {
		ft, _ := json.Marshal(fieldToggles[0])
		result += "&fieldToggles=" + jsonEscape(ft)
	}
	return result
}

func jsonEscape(b []byte) string {
	s := string(b)
	var result strings.Builder
	for _, ch := range s {
		switch {
		case ch == ' ':
			result.WriteString("%20")
		case ch == '"':
			result.WriteString("%22")
		case ch == '{':
			result.WriteString("%7B")
		case ch == '}':
			result.WriteString("%7D")
		case ch == '[':
			result.WriteString("%5B")
		case ch == ']':
			result.WriteString("%5D")
		case ch == ':':
			result.WriteString("%3A")
		case ch == ',':
			result.WriteString("%2C")
		case ch == '\'':
			result.WriteString("%27")
		case ch == '|':
			result.WriteString("%7C")
		default:
			result.WriteRune(ch)
		}
	}
	return result.String()
}
