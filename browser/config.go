package browser

import "time"

// Config controls the write-path browser session.
type Config struct {
	// Headless runs the rendering engine without a visible window. On by
	// default; turn off to watch the session while debugging.
	Headless *bool

	// UserAgent is the client identification string applied at launch and
	// re-asserted via CDP override.
	UserAgent string

	// Bearer is the public web-app bearer credential used by in-context
	// GraphQL replay.
	Bearer string

	// NavigationTimeout bounds a single page load.
	NavigationTimeout time.Duration

	// SelectorTimeout bounds each wait for an interactive control.
	SelectorTimeout time.Duration

	// ConfirmWait bounds the post-submission confirmation poll.
	ConfirmWait time.Duration

	// SettleDelay is the fixed pause after navigation and after clicks,
	// letting the platform's client-side scripts finish rendering.
	SettleDelay time.Duration
}

// Defaults fills in zero-value config fields.
func (cfg *Config) Defaults() {
	if cfg.Headless == nil {
		headless := true
		cfg.Headless = &headless
	}
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = 60 * time.Second
	}
	if cfg.SelectorTimeout == 0 {
		cfg.SelectorTimeout = 10 * time.Second
	}
	if cfg.ConfirmWait == 0 {
		cfg.ConfirmWait = 15 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 1500 * time.Millisecond
	}
}
