package browser

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed evasions.js
var evasionsScript string

// persona defines the browser characteristics to emulate. A single fixed
// profile keeps the fingerprint stable across relaunches, which matters more
// here than variety: the platform pins sessions to a device signature.
type persona struct {
	Platform string
	Timezone string
	Locale   string
}

var defaultPersona = persona{
	Platform: "Win32",
	Timezone: "America/Los_Angeles",
	Locale:   "en-US",
}

// stealthTasks builds the CDP actions that make the headless instance look
// like a user-operated browser: UA override, the evasions script injected
// before any page script runs, and consistent timezone/locale.
func stealthTasks(userAgent string, p persona) chromedp.Tasks {
	return chromedp.Tasks{
		emulation.SetUserAgentOverride(userAgent),

		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(evasionsScript).Do(ctx)
			if err != nil {
				return fmt.Errorf("inject evasions script: %w", err)
			}
			return nil
		}),

		emulation.SetTimezoneOverride(p.Timezone),
		emulation.SetLocaleOverride().WithLocale(p.Locale),
	}
}
