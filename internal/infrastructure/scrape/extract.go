package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsHyperlocalizer/internal/domain"
)

var whitespacePattern = regexp.MustCompile(`[\s\n\r\t]+`)

// ExtractURLs returns the deduplicated absolute URLs found in anchor
// elements, resolved against the base. No filtering happens here; deciding
// which URLs are stories is delegated to the AI extraction client.
func ExtractURLs(html, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		resolved := baseURL.ResolveReference(ref).String()
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		urls = append(urls, resolved)
	})

	return urls
}

// ExtractContent reduces rendered HTML to the normalized bundle fed to the
// AI extraction client: visible text, meta properties that carry both a name
// and content, and image references in document order.
func ExtractContent(html string) domain.PageContent {
	content := domain.PageContent{MetaProperties: map[string]string{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return content
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			name, _ = sel.Attr("property")
		}
		value, _ := sel.Attr("content")
		if name != "" && value != "" {
			content.MetaProperties[name] = value
		}
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			content.Images = append(content.Images, src)
		}
	})

	// Script and style text is not visible content.
	doc.Find("script, style, noscript").Remove()
	content.Text = strings.TrimSpace(whitespacePattern.ReplaceAllString(doc.Text(), " "))

	return content
}
