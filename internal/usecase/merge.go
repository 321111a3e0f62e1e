package usecase

import (
	"strings"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/price"
)

// MergedProduct is the combined parser output before name validation
type MergedProduct struct {
	Name  string
	Price *price.Price
	Image string
}

// Merge combines parser outputs by fixed priority: JSON-LD, then Open Graph,
// then the generic meta/title fallback. Prices come from JSON-LD, Open Graph,
// then the scraped HTML price; a raw value that does not parse falls through
// to the next source.
func Merge(jsonLD, openGraph, meta domain.PartialProduct, htmlPrice string) MergedProduct {
	return MergedProduct{
		Name:  firstNonEmpty(jsonLD.Name, openGraph.Name, meta.Name),
		Price: firstPrice(jsonLD.Price, openGraph.Price, htmlPrice),
		Image: firstNonEmpty(jsonLD.Image, openGraph.Image, meta.Image),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstPrice(raws ...string) *price.Price {
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if p := price.Parse(raw); p != nil {
			return p
		}
	}
	return nil
}
