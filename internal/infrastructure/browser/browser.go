// Package browser manages a shared headless Chrome instance for the dynamic
// and AJAX scraping strategies. The browser process is launched lazily on
// first use and every page fetch runs in its own tab context so that a hung
// page never leaks an OS-level browser process.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser owns the Chrome exec allocator and the root browser context.
type Browser struct {
	userAgent string
	timeout   time.Duration

	mu          sync.Mutex
	browserCtx  context.Context
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
	launchErr   error
	started     bool
}

// New prepares a browser handle without launching Chrome yet.
func New(userAgent string, timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Browser{userAgent: userAgent, timeout: timeout}
}

// allocatorOptions mirrors the fixed launch flag set: headless, sandboxless,
// suppressed logging.
func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
	)
	if b.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.userAgent))
	}
	return opts
}

// ensure launches Chrome on first use. The launch error is sticky: a machine
// without Chrome degrades every browser-backed fetch to a soft failure.
func (b *Browser) ensure() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return b.browserCtx, b.launchErr
	}
	b.started = true

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		b.launchErr = fmt.Errorf("start browser: %w", err)
		return nil, b.launchErr
	}

	b.browserCtx = browserCtx
	b.allocCancel = allocCancel
	b.ctxCancel = ctxCancel
	return b.browserCtx, nil
}

// Close shuts the browser process down. Safe to call when Chrome never
// started.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctxCancel != nil {
		b.ctxCancel()
		b.ctxCancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	b.started = false
	b.browserCtx = nil
	b.launchErr = nil
}

// FetchReady navigates to the URL in a fresh tab and returns the rendered
// document once the page reports a ready state.
func (b *Browser) FetchReady(ctx context.Context, url string) (string, error) {
	root, err := b.ensure()
	if err != nil {
		return "", err
	}

	tabCtx, tabCancel := chromedp.NewContext(root)
	defer tabCancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout)
	defer timeoutCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var html string
	err = chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	return html, nil
}

// FetchWithMarker navigates to the URL and waits up to wait for the content
// marker selector to appear. The wait timing out is non-fatal: whatever has
// rendered by then is returned.
func (b *Browser) FetchWithMarker(ctx context.Context, url, marker string, wait time.Duration) (string, error) {
	root, err := b.ensure()
	if err != nil {
		return "", err
	}

	tabCtx, tabCancel := chromedp.NewContext(root)
	defer tabCancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout)
	defer timeoutCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := chromedp.Run(timeoutCtx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	if marker != "" && wait > 0 {
		waitCtx, waitCancel := context.WithTimeout(timeoutCtx, wait)
		// Marker may never appear on pages that finished loading differently.
		_ = chromedp.Run(waitCtx, chromedp.WaitVisible(marker, chromedp.ByQuery))
		waitCancel()
	}

	var html string
	if err := chromedp.Run(timeoutCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}
