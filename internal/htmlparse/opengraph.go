package htmlparse

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/urlutil"
)

// Open Graph keys, lower-cased as collected by metaTags
const (
	ogTitle          = "og:title"
	ogImage          = "og:image"
	ogImageSecureURL = "og:image:secure_url"
	ogImageURL       = "og:image:url"
	productPriceAmt  = "product:price:amount"
	ogPriceAmount    = "og:price:amount"
)

// ParseOpenGraph reads og:title, og:image and product:price:amount. Both
// property= and name= forms are accepted. The image is only made absolute and
// checked for an http(s) scheme; it is trusted because it comes from a
// structured tag.
func ParseOpenGraph(doc *goquery.Document, baseURL string) domain.PartialProduct {
	tags := metaTags(doc)

	result := domain.PartialProduct{
		Name:  NormalizeText(tags[ogTitle]),
		Price: firstMeta(tags, productPriceAmt, ogPriceAmount),
	}

	if img := firstMeta(tags, ogImage, ogImageSecureURL, ogImageURL); img != "" {
		if abs, ok := urlutil.ResolveImageURL(img, baseURL); ok {
			result.Image = abs
		}
	}

	return result
}
