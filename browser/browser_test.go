package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
)

type stubCreds struct {
	authToken, ct0 string
}

func (s *stubCreds) Get() (string, string)  { return s.authToken, s.ct0 }
func (s *stubCreds) RefreshCT0(string) bool { return false }

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()

	if cfg.Headless == nil || !*cfg.Headless {
		t.Fatal("expected headless by default")
	}
	if cfg.NavigationTimeout != 60*time.Second {
		t.Fatalf("unexpected navigation timeout %v", cfg.NavigationTimeout)
	}
	if cfg.SelectorTimeout != 10*time.Second {
		t.Fatalf("unexpected selector timeout %v", cfg.SelectorTimeout)
	}
	if cfg.ConfirmWait != 15*time.Second {
		t.Fatalf("unexpected confirm wait %v", cfg.ConfirmWait)
	}
	if cfg.SettleDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected settle delay %v", cfg.SettleDelay)
	}
}

func TestConfigDefaults_KeepsExplicitValues(t *testing.T) {
	headless := false
	cfg := Config{
		Headless:          &headless,
		NavigationTimeout: 5 * time.Second,
	}
	cfg.Defaults()

	if *cfg.Headless {
		t.Fatal("explicit headful setting was overridden")
	}
	if cfg.NavigationTimeout != 5*time.Second {
		t.Fatalf("explicit timeout was overridden: %v", cfg.NavigationTimeout)
	}
}

func TestJSString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`with "quotes"`, `"with \"quotes\""`},
		{"two\nlines", `"two\nlines"`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, c := range cases {
		if got := jsString(c.in); got != c.want {
			t.Fatalf("jsString(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestInteractionError(t *testing.T) {
	base := errors.New("timed out")
	err := &InteractionError{Op: "Retweet", TargetID: "123", Err: base}

	if !errors.Is(err, base) {
		t.Fatal("expected unwrap to reach the cause")
	}
	msg := err.Error()
	if msg != `Retweet (123): browser interaction failed: timed out` {
		t.Fatalf("unexpected message %q", msg)
	}

	bare := &InteractionError{Op: "Post", Err: base}
	if bare.Error() != `Post: browser interaction failed: timed out` {
		t.Fatalf("unexpected message %q", bare.Error())
	}
}

func TestNewSessionIsLazy(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	s := NewSession(cfg, nil)

	if s.state != StateUninitialized {
		t.Fatalf("expected uninitialized state, got %v", s.state)
	}
}

func TestCT0FromCookies(t *testing.T) {
	cookies := []*network.Cookie{
		{Name: "guest_id", Value: "v1"},
		{Name: "ct0", Value: "livevalue"},
		{Name: "auth_token", Value: "secret"},
	}
	if got := ct0FromCookies(cookies); got != "livevalue" {
		t.Fatalf("got %q, want livevalue", got)
	}
	if got := ct0FromCookies(nil); got != "" {
		t.Fatalf("expected empty for no cookies, got %q", got)
	}
	if got := ct0FromCookies([]*network.Cookie{{Name: "guest_id", Value: "v1"}}); got != "" {
		t.Fatalf("expected empty when ct0 absent, got %q", got)
	}
}

func TestAllocatorOptions(t *testing.T) {
	for _, headless := range []bool{true, false} {
		h := headless
		cfg := Config{Headless: &h, UserAgent: "UA/1.0"}
		cfg.Defaults()
		s := NewSession(cfg, &stubCreds{})

		opts := s.allocatorOptions()
		if len(opts) == 0 {
			t.Fatal("expected launch options")
		}
		for i, opt := range opts {
			if opt == nil {
				t.Fatalf("nil option at %d", i)
			}
		}
	}
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	s := NewSession(cfg, &stubCreds{authToken: "tok", ct0: "ct0"})

	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.PostTweet(context.Background(), "hi", ""); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if err := s.ToggleRetweet(context.Background(), "1", false); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if _, err := s.ReplayMutation(context.Background(), "FavoriteTweet", "https://x.com/x", nil); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}

	// Close stays idempotent after rejected operations.
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestLaunchHonorsCancelledContext(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	s := NewSession(cfg, &stubCreds{authToken: "tok", ct0: "ct0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PostTweet(ctx, "hi", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
