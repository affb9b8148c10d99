package browser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

const (
	composeURL      = "https://x.com/compose/post"
	statusURLPrefix = "https://x.com/i/web/status/"

	// Stable UI markers. data-testid attributes survive the platform's
	// styling churn far better than class names.
	selComposeEditor   = `[data-testid="tweetTextarea_0"]`
	selReplyControl    = `[data-testid="reply"]`
	selRetweetControl  = `[data-testid="retweet"]`
	selUnretweetCtl    = `[data-testid="unretweet"]`
	selRetweetConfirm  = `[data-testid="retweetConfirm"]`
	selUnretweetConfrm = `[data-testid="unretweetConfirm"]`

	// successToastText is the confirmation banner the platform renders after
	// a post lands. Matching literal UI text is a best-effort heuristic; when
	// it changes upstream the poll falls back to the URL check and, failing
	// that, reports the outcome as unconfirmed rather than guessing.
	successToastText = "Your post was sent"

	confirmPollInterval = 500 * time.Millisecond
)

// PostTweet types a new post (or a reply when replyTo is set) into the
// compose surface and submits it with the keyboard chord. The returned bool
// reports whether a confirmation signal was observed; false with a nil error
// means the outcome is unknown, not that the post failed. Text length is the
// caller's responsibility.
func (s *Session) PostTweet(ctx context.Context, text, replyTo string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := "PostTweet"
	if replyTo != "" {
		op = "ReplyTweet"
	}

	if err := s.ensureReady(ctx); err != nil {
		return false, err
	}

	if replyTo == "" {
		if err := s.navigate(ctx, composeURL); err != nil {
			return false, &InteractionError{Op: op, Err: err}
		}
	} else {
		// Replies go through the target's own page so the platform threads
		// them; the inline composer opens off the reply control.
		if err := s.navigate(ctx, statusURLPrefix+replyTo); err != nil {
			return false, &InteractionError{Op: op, TargetID: replyTo, Err: err}
		}
		if err := s.run(ctx, s.cfg.SelectorTimeout,
			chromedp.WaitVisible(selReplyControl, chromedp.ByQuery),
			chromedp.Click(selReplyControl, chromedp.ByQuery),
			chromedp.Sleep(s.cfg.SettleDelay),
		); err != nil {
			return false, &InteractionError{Op: op, TargetID: replyTo, Err: err}
		}
	}

	if err := s.run(ctx, s.cfg.SelectorTimeout,
		chromedp.WaitVisible(selComposeEditor, chromedp.ByQuery),
		chromedp.Click(selComposeEditor, chromedp.ByQuery),
	); err != nil {
		return false, &InteractionError{Op: op, TargetID: replyTo, Err: err}
	}

	if err := s.typeText(ctx, text); err != nil {
		return false, &InteractionError{Op: op, TargetID: replyTo, Err: err}
	}

	// Submit with the keyboard chord. Clicking the post button is flagged
	// far more readily than Ctrl+Enter.
	if err := s.run(ctx, s.cfg.SelectorTimeout,
		chromedp.KeyEvent(kb.Enter, chromedp.KeyModifiers(input.ModifierCtrl)),
	); err != nil {
		return false, &InteractionError{Op: op, TargetID: replyTo, Err: err}
	}

	confirmed := s.awaitConfirmation(ctx, replyTo == "")
	slog.Info("post submitted",
		slog.String("op", op),
		slog.String("outcome", map[bool]string{true: "confirmed", false: "unconfirmed"}[confirmed]))
	return confirmed, nil
}

// typeText emits the literal text as keystrokes, splitting multi-line input
// into discrete segments. Enter inserts a line break inside the composer;
// only the Ctrl+Enter chord submits.
func (s *Session) typeText(ctx context.Context, text string) error {
	var tasks chromedp.Tasks
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			tasks = append(tasks, chromedp.KeyEvent(kb.Enter))
		}
		if line != "" {
			tasks = append(tasks, chromedp.SendKeys(selComposeEditor, line, chromedp.ByQuery))
		}
	}
	// Budget scales with input size so long posts are not cut off mid-word.
	timeout := s.cfg.SelectorTimeout + time.Duration(len(text))*50*time.Millisecond
	return s.run(ctx, timeout, tasks)
}

// awaitConfirmation polls for either the success toast or, for standalone
// posts, the location leaving the compose surface. Replies stay on the
// status page, so for them the editor disappearing counts instead. If no
// signal appears within the budget the outcome is reported unconfirmed.
func (s *Session) awaitConfirmation(ctx context.Context, fromCompose bool) bool {
	deadline := time.Now().Add(s.cfg.ConfirmWait)
	for time.Now().Before(deadline) {
		var toastSeen bool
		checkToast := chromedp.Evaluate(
			`document.body && document.body.innerText.includes(`+jsString(successToastText)+`)`, &toastSeen)
		if err := s.run(ctx, confirmPollInterval*4, checkToast); err == nil && toastSeen {
			return true
		}

		if fromCompose {
			var loc string
			if err := s.run(ctx, confirmPollInterval*4, chromedp.Location(&loc)); err == nil &&
				loc != "" && !strings.Contains(loc, "/compose/") {
				return true
			}
		} else {
			var editorGone bool
			check := chromedp.Evaluate(`document.querySelector(`+jsString(selComposeEditor)+`) === null`, &editorGone)
			if err := s.run(ctx, confirmPollInterval*4, check); err == nil && editorGone {
				return true
			}
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(confirmPollInterval):
		}
	}
	return false
}

// jsString quotes a Go string as a JS string literal.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
