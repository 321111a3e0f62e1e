package htmlparse

import (
	"html"

	"github.com/PuerkitoBio/goquery"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/urlutil"
)

const (
	twitterImage    = "twitter:image"
	twitterImageSrc = "twitter:image:src"
)

var defaultTitleCleaner = NewTitleCleaner()

// ParseFallback derives a name from the page <title> and an image from the
// twitter:image card. Only plausible image URLs are kept.
func ParseFallback(doc *goquery.Document, baseURL string) domain.PartialProduct {
	var result domain.PartialProduct

	title := doc.Find("title").First().Text()
	if title != "" {
		// goquery decodes entities once; double-encoded titles need a second pass
		result.Name = defaultTitleCleaner.Clean(CleanText(html.UnescapeString(title)))
	}

	if img := firstMeta(metaTags(doc), twitterImage, twitterImageSrc); img != "" {
		if abs, ok := urlutil.ResolveImageURL(img, baseURL); ok && urlutil.IsPlausibleImageURL(abs) {
			result.Image = abs
		}
	}

	return result
}
