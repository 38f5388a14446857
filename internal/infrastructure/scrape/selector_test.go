package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsHyperlocalizer/internal/config"
)

func testScrapeConfig() config.ScrapeConfig {
	return config.ScrapeConfig{
		UserAgent:    "test-agent",
		FetchTimeout: 5 * time.Second,
		AjaxWait:     time.Second,
		AjaxMarker:   "article",
	}
}

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("unexpected user agent: %s", got)
		}
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSelectStaticPage(t *testing.T) {
	server := serve(t, `<html><body><p>No scripts here.</p></body></html>`)

	s := NewSelector(testScrapeConfig(), nil, nil)
	scraper, err := s.Select(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}

	if _, ok := scraper.(*staticScraper); !ok {
		t.Fatalf("expected static scraper, got %T", scraper)
	}
}

func TestSelectDynamicPage(t *testing.T) {
	server := serve(t, `<html><body><script>document.title = "x";</script></body></html>`)

	s := NewSelector(testScrapeConfig(), nil, nil)
	scraper, err := s.Select(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}

	if _, ok := scraper.(*dynamicScraper); !ok {
		t.Fatalf("expected dynamic scraper, got %T", scraper)
	}
}

func TestSelectAjaxPage(t *testing.T) {
	server := serve(t, `<html><body>
	<script>fetch("/api").then(render); // classic AJAX polling
	var req = new XMLHttpRequest();</script>
	</body></html>`)

	s := NewSelector(testScrapeConfig(), nil, nil)
	scraper, err := s.Select(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}

	if _, ok := scraper.(*ajaxScraper); !ok {
		t.Fatalf("expected ajax scraper, got %T", scraper)
	}
}

func TestSelectAjaxCaseInsensitive(t *testing.T) {
	server := serve(t, `<html><body><script>$.Ajax({url: "/api"});</script></body></html>`)

	s := NewSelector(testScrapeConfig(), nil, nil)
	scraper, err := s.Select(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}

	if _, ok := scraper.(*ajaxScraper); !ok {
		t.Fatalf("expected ajax scraper, got %T", scraper)
	}
}

func TestSelectNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	s := NewSelector(testScrapeConfig(), nil, nil)
	if _, err := s.Select(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestStaticScraperFetch(t *testing.T) {
	server := serve(t, `<html><body>content</body></html>`)

	s := NewSelector(testScrapeConfig(), nil, nil)
	scraper, err := s.Select(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}

	html, err := scraper.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if html != `<html><body>content</body></html>` {
		t.Fatalf("unexpected html: %q", html)
	}
}
