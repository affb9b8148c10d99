package twitter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go-twitter-agent/browser"
)

// ErrNotFound signals that a handle or tweet id did not resolve to an
// existing entity. Callers render it as a clean not-found message instead of
// an error dump.
var ErrNotFound = errors.New("not found")

// RemoteRejectedError is a non-2xx response from the direct transport.
type RemoteRejectedError struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Op, e.Status, truncate(e.Body, 200))
}

// UIError is a failed browser interaction: a control that never appeared
// within its wait budget, or a navigation that timed out. Not retried here;
// retry policy belongs to the caller.
type UIError = browser.InteractionError

// csrfMismatchCode is the embedded error code the platform returns when the
// ct0 header/cookie pair no longer matches the session.
const csrfMismatchCode = 353

// isCSRFMismatch inspects a response body for the ct0-mismatch error code.
func isCSRFMismatch(body []byte) bool {
	var errResp struct {
		Errors []struct {
			Code int `json:"code"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return false
	}
	for _, e := range errResp.Errors {
		if e.Code == csrfMismatchCode {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
