// Package scrape implements the page-fetching strategies and the HTML
// extraction helpers of the collection pipeline. A page is fetched once over
// plain HTTP and classified by its markup; the resulting strategy is then
// responsible for producing the final rendered document.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsHyperlocalizer/internal/config"
	"NewsHyperlocalizer/internal/infrastructure/browser"
	"NewsHyperlocalizer/internal/ports"
)

// ajaxPattern marks script content that polls for content after load.
var ajaxPattern = regexp.MustCompile(`(?i)ajax|xmlhttprequest`)

// Selector classifies pages and hands out the matching scraping strategy.
type Selector struct {
	client  *http.Client
	browser *browser.Browser
	cfg     config.ScrapeConfig
	logger  *slog.Logger
}

var _ ports.ScraperSelector = (*Selector)(nil)

// NewSelector wires the shared HTTP client and browser handle.
func NewSelector(cfg config.ScrapeConfig, b *browser.Browser, logger *slog.Logger) *Selector {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Selector{
		client:  &http.Client{Timeout: timeout},
		browser: b,
		cfg:     cfg,
		logger:  logger,
	}
}

// Select fetches the URL once and classifies it, in priority order: script
// content matching the AJAX indicator, any script tag at all, or neither.
func (s *Selector) Select(ctx context.Context, url string) (ports.Scraper, error) {
	html, err := fetchStatic(ctx, s.client, url, s.cfg.UserAgent)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var hasScript, hasAjax bool
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		hasScript = true
		if ajaxPattern.MatchString(sel.Text()) {
			hasAjax = true
			return false
		}
		return true
	})

	switch {
	case hasAjax:
		s.debug("selected ajax scraper", "url", url)
		return &ajaxScraper{browser: s.browser, marker: s.cfg.AjaxMarker, wait: s.cfg.AjaxWait}, nil
	case hasScript:
		s.debug("selected dynamic scraper", "url", url)
		return &dynamicScraper{browser: s.browser}, nil
	default:
		s.debug("selected static scraper", "url", url)
		return &staticScraper{client: s.client, userAgent: s.cfg.UserAgent}, nil
	}
}

func (s *Selector) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// fetchStatic issues one HTTP GET and returns the body.
func fetchStatic(ctx context.Context, client *http.Client, url, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}
