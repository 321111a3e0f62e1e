// Package htmlparse extracts partial product records from untrusted,
// server-rendered HTML. Each parser is independent and returns whatever it
// could recover; merging and validation happen in the caller.
package htmlparse

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	textSanitizer   = bluemonday.StrictPolicy()
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// LoadDocument parses raw HTML into a goquery document
func LoadDocument(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// metaTags collects <meta> content keyed by lower-cased property or name.
// The first tag for a key wins. Attribute order does not matter.
func metaTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		for _, attr := range []string{"property", "name", "itemprop"} {
			key, ok := s.Attr(attr)
			if !ok {
				continue
			}
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if _, exists := tags[key]; !exists {
				tags[key] = content
			}
		}
	})
	return tags
}

// firstMeta returns the first non-empty value among keys
func firstMeta(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return ""
}

// CleanText strips markup, decodes entities and collapses whitespace. Use it
// on text lifted out of HTML markup such as <title>.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return NormalizeText(textSanitizer.Sanitize(s))
}

// NormalizeText decodes entities and collapses whitespace without touching
// angle brackets. JSON-LD and meta values are plain text, so "<Preta>" in a
// product name is kept.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
