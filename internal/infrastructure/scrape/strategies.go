package scrape

import (
	"context"
	"net/http"
	"time"

	"NewsHyperlocalizer/internal/infrastructure/browser"
	"NewsHyperlocalizer/internal/ports"
)

// staticScraper fetches server-rendered pages with one HTTP GET.
type staticScraper struct {
	client    *http.Client
	userAgent string
}

var _ ports.Scraper = (*staticScraper)(nil)

func (s *staticScraper) Fetch(ctx context.Context, url string) (string, error) {
	return fetchStatic(ctx, s.client, url, s.userAgent)
}

// dynamicScraper drives the headless browser and waits for a full
// document-ready state before reading the DOM.
type dynamicScraper struct {
	browser *browser.Browser
}

var _ ports.Scraper = (*dynamicScraper)(nil)

func (s *dynamicScraper) Fetch(ctx context.Context, url string) (string, error) {
	return s.browser.FetchReady(ctx, url)
}

// ajaxScraper drives the headless browser with a bounded wait for a content
// marker. The wait timing out is non-fatal; whatever loaded is returned.
type ajaxScraper struct {
	browser *browser.Browser
	marker  string
	wait    time.Duration
}

var _ ports.Scraper = (*ajaxScraper)(nil)

func (s *ajaxScraper) Fetch(ctx context.Context, url string) (string, error) {
	return s.browser.FetchWithMarker(ctx, url, s.marker, s.wait)
}
