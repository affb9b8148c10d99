package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ReplayMutation issues an authenticated GraphQL POST from inside the page's
// script context, so the request carries the real browser's network
// fingerprint and cookie jar. Used for simple engagement toggles that need
// no UI confirmation. The live ct0 is read off the page immediately
// beforehand, since the platform's own scripts may have rotated it.
func (s *Session) ReplayMutation(ctx context.Context, op, url string, payload map[string]any) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(s.pageCtx, s.cfg.NavigationTimeout)
	defer cancel()
	if err := s.reconcileCT0(runCtx); err != nil {
		return nil, &InteractionError{Op: op, Err: err}
	}
	_, ct0 := s.creds.Get()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal payload: %w", op, err)
	}

	js := fmt.Sprintf(`(async () => {
	const res = await fetch(%s, {
		method: "POST",
		headers: {
			"authorization": "Bearer %s",
			"content-type": "application/json",
			"x-csrf-token": %s,
			"x-twitter-active-user": "yes",
			"x-twitter-auth-type": "OAuth2Session",
		},
		credentials: "include",
		body: %s,
	});
	return await res.text();
})()`, jsString(url), s.cfg.Bearer, jsString(ct0), jsString(string(body)))

	var respText string
	err = s.run(ctx, s.cfg.NavigationTimeout,
		chromedp.Evaluate(js, &respText, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, &InteractionError{Op: op, Err: err}
	}
	return []byte(respText), nil
}

// ToggleRetweet performs a reshare (or its undo) through the UI. The
// platform interposes a confirmation menu on reshare, so both the primary
// control and the confirmation item must be clicked.
func (s *Session) ToggleRetweet(ctx context.Context, tweetID string, undo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, primary, confirm := "Retweet", selRetweetControl, selRetweetConfirm
	if undo {
		op, primary, confirm = "Unretweet", selUnretweetCtl, selUnretweetConfrm
	}

	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if err := s.navigate(ctx, statusURLPrefix+tweetID); err != nil {
		return &InteractionError{Op: op, TargetID: tweetID, Err: err}
	}
	if err := s.run(ctx, s.cfg.SelectorTimeout,
		chromedp.WaitVisible(primary, chromedp.ByQuery),
		chromedp.Click(primary, chromedp.ByQuery),
	); err != nil {
		return &InteractionError{Op: op, TargetID: tweetID, Err: err}
	}
	if err := s.run(ctx, s.cfg.SelectorTimeout,
		chromedp.WaitVisible(confirm, chromedp.ByQuery),
		chromedp.Click(confirm, chromedp.ByQuery),
		chromedp.Sleep(s.cfg.SettleDelay),
	); err != nil {
		return &InteractionError{Op: op, TargetID: tweetID, Err: err}
	}
	return nil
}
