package htmlparse

import (
	"regexp"

	"github.com/setupscatalog/linkengine/internal/price"
)

// pricePatterns are tried in priority order; every match of a pattern is
// checked before moving to the next one.
var pricePatterns = []*regexp.Regexp{
	// <span class="product-price"><strong>R$ 1.299,90</strong></span>
	regexp.MustCompile(`(?is)class\s*=\s*["'][^"']*price[^"']*["'][^>]*>(?:\s*<[^>]+>)*\s*([^<]{1,60})`),
	// data-price="1299.90"
	regexp.MustCompile(`(?i)data-price\s*=\s*["']([^"']+)["']`),
	// bare R$ amounts in text
	regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})+(?:,\d{2})?|\d+(?:,\d{2})?)`),
	// itemprop="price" content="1299.90", either attribute order
	regexp.MustCompile(`(?i)itemprop\s*=\s*["']price["'][^>]*content\s*=\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)content\s*=\s*["']([^"']+)["'][^>]*itemprop\s*=\s*["']price["']`),
}

var amountRegex = regexp.MustCompile(`\d[\d.,]*`)

// ScrapePrice is the last-resort price source: it returns the first raw
// amount found by the regex cascade that parses to a positive price, or "".
func ScrapePrice(rawHTML string) string {
	for _, pattern := range pricePatterns {
		for _, match := range pattern.FindAllStringSubmatch(rawHTML, -1) {
			if len(match) < 2 {
				continue
			}
			amount := amountRegex.FindString(match[1])
			if amount == "" {
				continue
			}
			if price.Parse(amount) != nil {
				return amount
			}
		}
	}
	return ""
}
