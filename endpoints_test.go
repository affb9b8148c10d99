package twitter

import (
	"strings"
	"testing"
)

func TestEndpointURL(t *testing.T) {
	url, err := EndpointURL("HomeTimeline")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://x.com/i/api/graphql/HJFjzBgCs16TqxewQOeLNg/HomeTimeline"
	if url != want {
		t.Fatalf("got %s, want %s", url, want)
	}

	if _, err := EndpointURL("NoSuchOperation"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestAddGraphQLParams(t *testing.T) {
	url := addGraphQLParams("https://x.com/i/api/graphql/abc/Op",
		map[string]any{"count": 20},
		map[string]any{"flag": true})

	if !strings.Contains(url, "?variables=") {
		t.Fatalf("missing variables param: %s", url)
	}
	if !strings.Contains(url, "&features=") {
		t.Fatalf("missing features param: %s", url)
	}
	if !strings.Contains(url, "%22count%22%3A20") {
		t.Fatalf("variables not escaped: %s", url)
	}
	if strings.ContainsAny(url, `{}" `) {
		t.Fatalf("unescaped JSON characters leaked into URL: %s", url)
	}
}

func TestAddGraphQLParams_FieldToggles(t *testing.T) {
	url := addGraphQLParams("https://x.com/i/api/graphql/abc/Op",
		map[string]any{}, map[string]any{},
		map[string]any{"withArticleRichContentState": false})

	if !strings.Contains(url, "&fieldToggles=") {
		t.Fatalf("missing fieldToggles param: %s", url)
	}
}

func TestAddGraphQLParams_ExistingQuery(t *testing.T) {
	url := addGraphQLParams("https://x.com/i/api/2/guide.json?initial_tab_id=trending",
		map[string]any{}, map[string]any{})
	if strings.Count(url, "?") != 1 {
		t.Fatalf("expected a single query separator: %s", url)
	}
	if !strings.Contains(url, "&variables=") {
		t.Fatalf("params not appended with &: %s", url)
	}
}

func TestAPIHeaders(t *testing.T) {
	h := apiHeaders("tokA", "ct0B", "TestUA/1.0")

	if !strings.HasPrefix(h["authorization"], "Bearer ") {
		t.Fatalf("missing bearer auth: %q", h["authorization"])
	}
	if h["x-csrf-token"] != "ct0B" {
		t.Fatalf("csrf header must mirror ct0, got %q", h["x-csrf-token"])
	}
	cookie := h["cookie"]
	if !strings.Contains(cookie, "auth_token=tokA") || !strings.Contains(cookie, "ct0=ct0B") {
		t.Fatalf("cookie missing session pair: %q", cookie)
	}
	if h["user-agent"] != "TestUA/1.0" {
		t.Fatalf("unexpected user-agent %q", h["user-agent"])
	}

	// Every statically-built name in the order list must be present; the
	// sec-ch-ua trio is supplied by the client-hints helper and depends on
	// the user-agent string.
	for _, name := range apiHeaderOrder {
		if strings.HasPrefix(name, "sec-ch-ua") {
			continue
		}
		if _, ok := h[name]; !ok {
			t.Fatalf("header %q in order list but not produced", name)
		}
	}
}
