package twitter

import (
	"context"
	"errors"
	"io"
	"testing"
)

type cannedResponse struct {
	body    string
	headers map[string]string
	status  int
}

type fakeDoer struct {
	responses []cannedResponse
	calls     int
	seenCT0   []string
}

func (f *fakeDoer) DoWithHeaderOrder(_, _ string, headers map[string]string, _ io.Reader, _ []string) ([]byte, map[string]string, int, error) {
	f.seenCT0 = append(f.seenCT0, headers["x-csrf-token"])
	if f.calls >= len(f.responses) {
		return nil, nil, 0, errors.New("no canned response left")
	}
	r := f.responses[f.calls]
	f.calls++
	return []byte(r.body), r.headers, r.status, nil
}

func newTestTransport(doer *fakeDoer) *directTransport {
	creds, _ := NewCredentials("tok", "initial-ct0")
	return &directTransport{client: doer, creds: creds}
}

func TestDirectGet_Success(t *testing.T) {
	doer := &fakeDoer{responses: []cannedResponse{
		{body: `{"data":{}}`, status: 200},
	}}
	d := newTestTransport(doer)

	body, err := d.get(context.Background(), "HomeTimeline", "https://x.com/i/api/graphql/x/HomeTimeline")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"data":{}}` {
		t.Fatalf("unexpected body %s", body)
	}
	if doer.calls != 1 {
		t.Fatalf("expected 1 call, got %d", doer.calls)
	}
}

func TestDirectGet_AdoptsCT0OnSuccess(t *testing.T) {
	doer := &fakeDoer{responses: []cannedResponse{
		{body: `{}`, status: 200, headers: map[string]string{"set-cookie": "ct0=freshvalue; Path=/"}},
	}}
	d := newTestTransport(doer)

	if _, err := d.get(context.Background(), "op", "https://x.com/x"); err != nil {
		t.Fatal(err)
	}
	_, ct0 := d.creds.Get()
	if ct0 != "freshvalue" {
		t.Fatalf("rotated ct0 not adopted, got %q", ct0)
	}
}

func TestDirectGet_CSRFMismatchRetriesOnce(t *testing.T) {
	mismatch := `{"errors":[{"code":353,"message":"csrf"}]}`
	doer := &fakeDoer{responses: []cannedResponse{
		{body: mismatch, status: 403, headers: map[string]string{"set-cookie": "ct0=serverissued; Path=/"}},
		{body: `{"data":{"ok":true}}`, status: 200},
	}}
	d := newTestTransport(doer)

	body, err := d.get(context.Background(), "op", "https://x.com/x")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"data":{"ok":true}}` {
		t.Fatalf("unexpected body %s", body)
	}
	if doer.calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", doer.calls)
	}
	if doer.seenCT0[0] != "initial-ct0" {
		t.Fatalf("first attempt used %q", doer.seenCT0[0])
	}
	if doer.seenCT0[1] != "serverissued" {
		t.Fatalf("retry did not carry the refreshed token, used %q", doer.seenCT0[1])
	}
}

func TestDirectGet_CSRFMismatchMintsWhenNoCookie(t *testing.T) {
	mismatch := `{"errors":[{"code":353,"message":"csrf"}]}`
	doer := &fakeDoer{responses: []cannedResponse{
		{body: mismatch, status: 403},
		{body: `{}`, status: 200},
	}}
	d := newTestTransport(doer)

	if _, err := d.get(context.Background(), "op", "https://x.com/x"); err != nil {
		t.Fatal(err)
	}
	if doer.seenCT0[1] == "initial-ct0" {
		t.Fatal("retry reused the rejected token instead of minting one")
	}
	if len(doer.seenCT0[1]) != 64 {
		t.Fatalf("minted token has wrong shape: %q", doer.seenCT0[1])
	}
}

func TestDirectGet_SecondFailureSurfacesWithoutRetry(t *testing.T) {
	mismatch := `{"errors":[{"code":353,"message":"csrf"}]}`
	doer := &fakeDoer{responses: []cannedResponse{
		{body: mismatch, status: 403},
		{body: mismatch, status: 403},
		{body: `{}`, status: 200},
	}}
	d := newTestTransport(doer)

	_, err := d.get(context.Background(), "op", "https://x.com/x")
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RemoteRejectedError, got %v", err)
	}
	if rejected.Status != 403 {
		t.Fatalf("unexpected status %d", rejected.Status)
	}
	if doer.calls != 2 {
		t.Fatalf("expected no third attempt, got %d calls", doer.calls)
	}
}

func TestDirectGet_NonCSRFRejection(t *testing.T) {
	doer := &fakeDoer{responses: []cannedResponse{
		{body: `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`, status: 429},
	}}
	d := newTestTransport(doer)

	_, err := d.get(context.Background(), "op", "https://x.com/x")
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RemoteRejectedError, got %v", err)
	}
	if rejected.Status != 429 {
		t.Fatalf("unexpected status %d", rejected.Status)
	}
	if doer.calls != 1 {
		t.Fatalf("rate limit must not retry, got %d calls", doer.calls)
	}
}
