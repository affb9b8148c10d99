package twitter

import "testing"

func TestNewCredentials_RequiresBoth(t *testing.T) {
	if _, err := NewCredentials("", "ct0"); err == nil {
		t.Fatal("expected error for missing auth_token")
	}
	if _, err := NewCredentials("tok", ""); err == nil {
		t.Fatal("expected error for missing ct0")
	}
	creds, err := NewCredentials("tok", "ct0value")
	if err != nil {
		t.Fatal(err)
	}
	authToken, ct0 := creds.Get()
	if authToken != "tok" || ct0 != "ct0value" {
		t.Fatalf("unexpected snapshot %q, %q", authToken, ct0)
	}
}

func TestRefreshCT0(t *testing.T) {
	creds, _ := NewCredentials("tok", "original")

	if creds.RefreshCT0("") {
		t.Fatal("empty refresh should be a no-op")
	}
	if creds.RefreshCT0("original") {
		t.Fatal("identical refresh should be a no-op")
	}
	if !creds.RefreshCT0("rotated") {
		t.Fatal("expected refresh to apply")
	}
	authToken, ct0 := creds.Get()
	if authToken != "tok" {
		t.Fatalf("auth_token must never change, got %q", authToken)
	}
	if ct0 != "rotated" {
		t.Fatalf("expected rotated ct0, got %q", ct0)
	}
}

func TestRotateCT0(t *testing.T) {
	creds, _ := NewCredentials("tok", "original")

	minted := creds.RotateCT0()
	if len(minted) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(minted))
	}
	_, ct0 := creds.Get()
	if ct0 != minted {
		t.Fatal("minted token not installed")
	}
	if minted == "original" {
		t.Fatal("rotation produced the old token")
	}
}

func TestGenerateCT0(t *testing.T) {
	a, b := GenerateCT0(), GenerateCT0()
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("expected 64 hex chars, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Fatal("two generated tokens collided")
	}
}

func TestExtractCT0FromHeaders(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"present", map[string]string{"set-cookie": "ct0=abc123; Path=/; Domain=.x.com; Secure"}, "abc123"},
		{"after other cookie attrs", map[string]string{"set-cookie": "guest_id=v1; ct0=deadbeef; Secure"}, "deadbeef"},
		{"absent", map[string]string{"set-cookie": "guest_id=v1; Path=/"}, ""},
		{"empty value", map[string]string{"set-cookie": "ct0=; Path=/"}, ""},
		{"no header", map[string]string{}, ""},
	}
	for _, c := range cases {
		if got := extractCT0FromHeaders(c.headers); got != c.want {
			t.Fatalf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}
