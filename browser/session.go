// Package browser drives mutating operations through a real rendering
// engine. The platform rejects write calls issued as bare HTTP from an
// unrecognized client fingerprint, so everything that changes state runs
// inside a fingerprint-masked headless session carrying the real session
// cookies.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// CredentialStore is the slice of the client's credential store the session
// needs: read both secrets, write back a rotated ct0. The session never
// copies credentials; it reads through on every use.
type CredentialStore interface {
	Get() (authToken, ct0 string)
	RefreshCT0(ct0 string) bool
}

// State tracks the session lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLaunching
	StateReady
	StateClosed
)

const (
	platformDomain = ".x.com"
	homeURL        = "https://x.com/home"
)

// InteractionError is a failed browser step: a control that never appeared
// within its wait budget or a navigation that timed out. Never retried here.
type InteractionError struct {
	Op       string
	TargetID string
	Err      error
}

func (e *InteractionError) Error() string {
	if e.TargetID != "" {
		return fmt.Sprintf("%s (%s): browser interaction failed: %v", e.Op, e.TargetID, e.Err)
	}
	return fmt.Sprintf("%s: browser interaction failed: %v", e.Op, e.Err)
}

func (e *InteractionError) Unwrap() error { return e.Err }

// Session owns exactly one live browser instance and one page. It launches
// lazily on first use and is reused while the underlying target stays
// connected. One page, no internal concurrency: the mutex serializes every
// operation, since interleaved navigation and typing would corrupt each
// other.
type Session struct {
	cfg   Config
	creds CredentialStore

	mu    sync.Mutex
	state State
	id    string

	allocCancel context.CancelFunc
	pageCtx     context.Context
	pageCancel  context.CancelFunc
}

// NewSession prepares a session without launching anything. The browser
// starts on the first write operation.
func NewSession(cfg Config, creds CredentialStore) *Session {
	cfg.Defaults()
	return &Session{cfg: cfg, creds: creds}
}

// ErrSessionClosed is returned for operations arriving after Close. A closed
// session is never resurrected; the owner decided it is done.
var ErrSessionClosed = errors.New("browser session closed")

// ensureReady launches the browser if needed and verifies an existing one is
// still responsive, relaunching when it is not. Callers hold s.mu.
func (s *Session) ensureReady(ctx context.Context) error {
	if s.state == StateClosed {
		return ErrSessionClosed
	}
	if s.state == StateReady {
		if s.alive() {
			return nil
		}
		slog.Warn("browser session disconnected, relaunching", slog.String("session_id", s.id))
		s.teardown()
	}
	return s.launch(ctx)
}

// alive checks the existing page with a trivial evaluation.
func (s *Session) alive() bool {
	if s.pageCtx == nil || s.pageCtx.Err() != nil {
		return false
	}
	checkCtx, cancel := context.WithTimeout(s.pageCtx, 3*time.Second)
	defer cancel()
	return chromedp.Run(checkCtx, chromedp.Evaluate(`1`, nil)) == nil
}

// launch starts the rendering engine, masks its automation signature,
// replays the session cookies, and lands on the authenticated home page.
func (s *Session) launch(ctx context.Context) error {
	s.state = StateLaunching
	s.id = uuid.New().String()
	slog.Info("launching browser session", slog.String("session_id", s.id))

	// The allocator hangs off Background: the session outlives any single
	// operation's context.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), s.allocatorOptions()...)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)
	s.allocCancel = allocCancel
	s.pageCtx = pageCtx
	s.pageCancel = pageCancel

	// The launch deadline is the navigation budget or the caller giving up,
	// whichever comes first.
	launchCtx, cancel := context.WithTimeout(pageCtx, s.cfg.NavigationTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	authToken, ct0 := s.creds.Get()
	err := chromedp.Run(launchCtx,
		stealthTasks(s.cfg.UserAgent, defaultPersona),
		s.injectCookies(authToken, ct0),
		chromedp.Navigate(homeURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.SettleDelay),
	)
	if err != nil {
		s.teardown()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &InteractionError{Op: "launch", Err: err}
	}

	// The platform's own client-side code may have rotated ct0 during load;
	// reconcile it back into the shared store.
	if err := s.reconcileCT0(launchCtx); err != nil {
		slog.Debug("ct0 readback failed after launch", slog.Any("error", err))
	}

	s.state = StateReady
	slog.Info("browser session ready", slog.String("session_id", s.id))
	return nil
}

// allocatorOptions assembles launch flags for a stealthy headless instance.
// The flag set is built explicitly rather than extending the package
// defaults, which carry the enable-automation flag advertising the session
// as automated.
func (s *Session) allocatorOptions() []chromedp.ExecAllocatorOption {
	headless := *s.cfg.Headless
	return []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-gpu", headless),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(s.cfg.UserAgent),
	}
}

// injectCookies installs both session secrets scoped to the platform domain
// before the first navigation.
func (s *Session) injectCookies(authToken, ct0 string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range []struct {
			name, value string
			httpOnly    bool
		}{
			{"auth_token", authToken, true},
			{"ct0", ct0, false},
		} {
			err := network.SetCookie(c.name, c.value).
				WithDomain(platformDomain).
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(c.httpOnly).
				WithSameSite(network.CookieSameSiteLax).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("set cookie %s: %w", c.name, err)
			}
		}
		return nil
	})
}

// reconcileCT0 reads the live ct0 cookie out of the page and adopts it into
// the store when it differs.
func (s *Session) reconcileCT0(ctx context.Context) error {
	var live string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().WithURLs([]string{homeURL}).Do(ctx)
		if err != nil {
			return err
		}
		live = ct0FromCookies(cookies)
		return nil
	}))
	if err != nil {
		return err
	}
	s.creds.RefreshCT0(live)
	return nil
}

// ct0FromCookies picks the anti-forgery token out of a cookie listing.
func ct0FromCookies(cookies []*network.Cookie) string {
	for _, c := range cookies {
		if c.Name == "ct0" {
			return c.Value
		}
	}
	return ""
}

// teardown releases the browser without changing the visible state; callers
// decide what comes next.
func (s *Session) teardown() {
	if s.pageCancel != nil {
		s.pageCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.pageCtx = nil
	s.pageCancel = nil
	s.allocCancel = nil
}

// Close tears the session down. Idempotent, and safe to call even if no
// browser was ever launched.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil
	}
	if s.state != StateUninitialized {
		slog.Info("closing browser session", slog.String("session_id", s.id))
	}
	s.teardown()
	s.state = StateClosed
	return nil
}

// run executes actions against the live page under a combined deadline.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s.pageCtx == nil {
		return errors.New("browser session not launched")
	}
	runCtx, cancel := context.WithTimeout(s.pageCtx, timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// navigate loads a URL in the live page and lets the client-side scripts
// settle before the caller starts locating controls.
func (s *Session) navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.cfg.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.SettleDelay),
	)
}
