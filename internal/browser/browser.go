// Package browser owns the shared rod session: navigation with scheme
// repair, readiness waits, challenge detection and page snapshots. One
// session is reused across every site in a run.
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/drivehoanmyareum-rgb/formscout/internal/dom"
)

const (
	// readiness wait is capped regardless of the navigation timeout
	maxReadyWait = 10 * time.Second
	settleDelay  = 200 * time.Millisecond

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115 Safari/537.36"
)

// challengeMarkers are scanned case-insensitively in the raw page content.
var challengeMarkers = []string{"captcha", "recaptcha", "g-recaptcha"}

// Options configures the browser session.
type Options struct {
	Headful bool
}

// Browser wraps the rod browser and the single page reused across scans.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
}

// New launches the browser and opens the shared page. A launch or connect
// failure here is fatal to the whole run.
func New(opts Options) (*Browser, error) {
	path, _ := launcher.LookPath()
	l := launcher.New().
		Bin(path).
		Headless(!opts.Headful).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		b.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}

	// best effort: hide the automation flag from naive checks
	_, _ = page.EvalOnNewDocument("Object.defineProperty(navigator,'webdriver',{get:()=>undefined});")

	return &Browser{browser: b, page: page}, nil
}

// Close releases the page and browser. Safe to call on every exit path.
func (b *Browser) Close() {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
}

// Open navigates to rawURL and waits for readiness. If direct navigation
// fails and the URL has no http prefix, it retries once with http://
// prepended. Returns false only when both attempts fail.
func (b *Browser) Open(rawURL string, timeout time.Duration) bool {
	if b.tryOpen(rawURL, timeout) {
		return true
	}
	if !strings.HasPrefix(rawURL, "http") {
		return b.tryOpen("http://"+rawURL, timeout)
	}
	return false
}

func (b *Browser) tryOpen(url string, timeout time.Duration) bool {
	if err := b.page.Timeout(timeout).Navigate(url); err != nil {
		return false
	}
	// a page that never reaches readiness counts as a failed open
	return b.WaitReady(timeout) == nil
}

// WaitReady blocks until the page reports loaded, capped at 10 seconds no
// matter the configured timeout, then lets the page settle briefly.
func (b *Browser) WaitReady(timeout time.Duration) error {
	wait := timeout
	if wait <= 0 || wait > maxReadyWait {
		wait = maxReadyWait
	}
	if err := b.page.Timeout(wait).WaitLoad(); err != nil {
		return fmt.Errorf("wait for page load: %w", err)
	}
	time.Sleep(settleDelay)
	return nil
}

// CurrentURL returns the page's current address.
func (b *Browser) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// HTML returns the current document's serialized content, empty on failure.
func (b *Browser) HTML() string {
	html, err := b.page.HTML()
	if err != nil {
		return ""
	}
	return html
}

// Screenshot captures the current viewport as PNG.
func (b *Browser) Screenshot() ([]byte, error) {
	return b.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// HasForm reports whether at least one <form> exists in the document.
func (b *Browser) HasForm() bool {
	obj, err := b.page.Eval(`() => document.querySelectorAll('form').length > 0`)
	if err != nil {
		return false
	}
	return obj.Value.Bool()
}

// DOM exposes the current page to the candidate collector.
func (b *Browser) DOM() dom.Page {
	return dom.NewRodPage(b.page)
}

// ContainsChallenge reports whether the raw page content carries a
// bot-challenge signature.
func ContainsChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
