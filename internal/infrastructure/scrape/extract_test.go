package scrape

import (
	"testing"
)

func TestExtractURLsResolvesAndDeduplicates(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<a href="/news/one">One</a>
	<a href="news/two">Two</a>
	<a href="https://other.test/three">Three</a>
	<a href="/news/one">One again</a>
	<a href="">blank</a>
	</body></html>`

	urls := ExtractURLs(html, "https://news.test/section/")

	want := []string{
		"https://news.test/news/one",
		"https://news.test/section/news/two",
		"https://other.test/three",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %d: %v", len(want), len(urls), urls)
	}
	for i, u := range want {
		if urls[i] != u {
			t.Fatalf("expected url %d to be %s, got %s", i, u, urls[i])
		}
	}
}

func TestExtractURLsEmptyDocument(t *testing.T) {
	t.Parallel()

	if urls := ExtractURLs("<html><body></body></html>", "https://news.test"); len(urls) != 0 {
		t.Fatalf("expected no urls, got %v", urls)
	}
}

func TestExtractContent(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<meta name="author" content="A. Writer">
	<meta property="og:title" content="Big News">
	<meta name="empty" content="">
	</head><body>
	<script>var x = "invisible";</script>
	<style>body { color: red; }</style>
	<h1>Big   News</h1>
	<p>Something happened
	in town.</p>
	<img src="/images/photo.jpg">
	<img src="/images/other.jpg">
	</body></html>`

	content := ExtractContent(html)

	if content.Text != "Big News Something happened in town." {
		t.Fatalf("unexpected text: %q", content.Text)
	}
	if content.MetaProperties["author"] != "A. Writer" {
		t.Fatalf("expected author meta, got %v", content.MetaProperties)
	}
	if content.MetaProperties["og:title"] != "Big News" {
		t.Fatalf("expected og:title meta, got %v", content.MetaProperties)
	}
	if _, ok := content.MetaProperties["empty"]; ok {
		t.Fatal("empty meta content should be dropped")
	}
	if len(content.Images) != 2 || content.Images[0] != "/images/photo.jpg" {
		t.Fatalf("unexpected images: %v", content.Images)
	}
}

func TestExtractContentHandlesBareText(t *testing.T) {
	t.Parallel()

	content := ExtractContent("plain text, no markup")
	if content.Text != "plain text, no markup" {
		t.Fatalf("unexpected text: %q", content.Text)
	}
	if len(content.Images) != 0 {
		t.Fatalf("unexpected images: %v", content.Images)
	}
}
