package htmlparse

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/setupscatalog/linkengine/internal/domain"
)

// offerPriceKeys are read from the first offer, in order
var offerPriceKeys = []string{"price", "lowPrice", "highPrice"}

var controlCharReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// ParseJSONLD scans every application/ld+json script for a schema.org
// Product node and extracts name, price and image from the first document
// that contains one. Blocks that are not valid JSON are skipped.
func ParseJSONLD(doc *goquery.Document, baseURL string) domain.PartialProduct {
	for _, block := range jsonLDBlocks(doc) {
		product := findProductNode(block)
		if product == nil {
			continue
		}
		return domain.PartialProduct{
			Name:  productName(product),
			Price: offerPrice(product["offers"]),
			Image: NewImageRef(product["image"]).Resolve(baseURL),
		}
	}
	return domain.PartialProduct{}
}

// jsonLDBlocks yields every ld+json script that decodes, in document order
func jsonLDBlocks(doc *goquery.Document) []any {
	var blocks []any
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scriptType, _ := s.Attr("type")
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(scriptType)), "application/ld+json") {
			return
		}
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		if v, ok := decodeJSON(raw); ok {
			blocks = append(blocks, v)
			return
		}
		// Some CMSs emit raw newlines inside string literals
		if v, ok := decodeJSON(controlCharReplacer.Replace(raw)); ok {
			blocks = append(blocks, v)
		}
	})
	return blocks
}

func decodeJSON(raw string) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// findProductNode walks a decoded document depth-first and returns the first
// object typed Product. @graph is visited before other keys.
func findProductNode(node any) map[string]any {
	switch n := node.(type) {
	case map[string]any:
		if isProductType(n["@type"]) {
			return n
		}
		if graph, ok := n["@graph"]; ok {
			if p := findProductNode(graph); p != nil {
				return p
			}
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			if k != "@graph" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if p := findProductNode(n[k]); p != nil {
				return p
			}
		}
	case []any:
		for _, item := range n {
			if p := findProductNode(item); p != nil {
				return p
			}
		}
	}
	return nil
}

func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return isProductTypeName(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && isProductTypeName(s) {
				return true
			}
		}
	}
	return false
}

func isProductTypeName(s string) bool {
	s = strings.TrimSpace(s)
	return s == "Product" || strings.HasSuffix(s, "/Product") || strings.HasSuffix(s, ":Product")
}

func productName(product map[string]any) string {
	name, _ := product["name"].(string)
	return NormalizeText(name)
}

// offerPrice reads the first present price field from offers, which may be a
// single object or a list (only the first element is used).
func offerPrice(offers any) string {
	var offer map[string]any
	switch o := offers.(type) {
	case map[string]any:
		offer = o
	case []any:
		if len(o) > 0 {
			offer, _ = o[0].(map[string]any)
		}
	}
	if offer == nil {
		return ""
	}

	for _, key := range offerPriceKeys {
		if s := scalarString(offer[key]); s != "" {
			return s
		}
	}
	return ""
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
