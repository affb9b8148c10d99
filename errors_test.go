package twitter

import (
	"errors"
	"strings"
	"testing"
)

func TestIsCSRFMismatch(t *testing.T) {
	body := `{"errors":[{"code":353,"message":"This request requires a matching csrf cookie and header."}]}`
	if !isCSRFMismatch([]byte(body)) {
		t.Fatal("expected code 353 to register as csrf mismatch")
	}

	other := `{"errors":[{"code":34,"message":"Sorry, that page does not exist."}]}`
	if isCSRFMismatch([]byte(other)) {
		t.Fatal("code 34 is not a csrf mismatch")
	}

	if isCSRFMismatch([]byte(`<html>Forbidden</html>`)) {
		t.Fatal("non-JSON body is not a csrf mismatch")
	}
	if isCSRFMismatch([]byte(`{}`)) {
		t.Fatal("empty error list is not a csrf mismatch")
	}
}

func TestRemoteRejectedError(t *testing.T) {
	err := &RemoteRejectedError{Op: "HomeTimeline", Status: 429, Body: "rate limited"}
	msg := err.Error()
	if !strings.Contains(msg, "HomeTimeline") || !strings.Contains(msg, "429") {
		t.Fatalf("unexpected message %q", msg)
	}

	long := &RemoteRejectedError{Op: "x", Status: 500, Body: strings.Repeat("a", 500)}
	if len(long.Error()) > 250 {
		t.Fatalf("body not truncated: %d chars", len(long.Error()))
	}
}

func TestIsNotFound(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), ErrNotFound)
	if !IsNotFound(wrapped) {
		t.Fatal("expected wrapped ErrNotFound to match")
	}
	if IsNotFound(errors.New("something else")) {
		t.Fatal("unrelated error must not match")
	}
	if IsNotFound(nil) {
		t.Fatal("nil must not match")
	}
}
