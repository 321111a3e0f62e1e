// Package urlutil holds the URL helpers shared by the extraction and
// affiliate pipelines.
package urlutil

import (
	"net/url"
	"strings"
)

// trackingParams are removed by CleanURL. Any key starting with "utm_" is
// removed as well.
var trackingParams = map[string]bool{
	"ref":       true,
	"fbclid":    true,
	"gclid":     true,
	"msclkid":   true,
	"dclid":     true,
	"zanpid":    true,
	"affiliate": true,
	"aff_id":    true,
}

// knownStoreDomains maps common retail domains to the short store key used on
// extracted products.
var knownStoreDomains = map[string]string{
	"amazon.com.br":        "Amazon",
	"amazon.com":           "Amazon",
	"mercadolivre.com.br":  "Mercado Livre",
	"mercadolibre.com":     "Mercado Livre",
	"magazineluiza.com.br": "Magalu",
	"magalu.com.br":        "Magalu",
	"kabum.com.br":         "KaBuM!",
	"pichau.com.br":        "Pichau",
	"terabyteshop.com.br":  "Terabyte",
	"americanas.com.br":    "Americanas",
	"submarino.com.br":     "Submarino",
	"casasbahia.com.br":    "Casas Bahia",
	"fastshop.com.br":      "Fast Shop",
	"shopee.com.br":        "Shopee",
	"aliexpress.com":       "AliExpress",
	"ikea.com":             "IKEA",
	"bhphotovideo.com":     "B&H",
	"bestbuy.com":          "Best Buy",
	"hermanmiller.com":     "Herman Miller",
}

// IsTrackingParam reports whether a query key is on the tracking denylist
func IsTrackingParam(key string) bool {
	key = strings.ToLower(key)
	return strings.HasPrefix(key, "utm_") || trackingParams[key]
}

// CleanURL removes tracking query parameters. The input is returned unchanged
// when it does not parse. CleanURL(CleanURL(x)) == CleanURL(x).
func CleanURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	if u.RawQuery != "" {
		kept := make([]string, 0, strings.Count(u.RawQuery, "&")+1)
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key := pair
			if idx := strings.IndexByte(pair, '='); idx >= 0 {
				key = pair[:idx]
			}
			if decoded, err := url.QueryUnescape(key); err == nil {
				key = decoded
			}
			if IsTrackingParam(key) {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
	}
	u.ForceQuery = false

	return u.String()
}

// IsValidURL reports whether raw parses as an absolute http or https URL
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// MakeAbsolute resolves maybeRelative against baseURL. Absolute URLs are
// returned unchanged and protocol-relative ones get an https scheme. The
// second return value is false when the input cannot be resolved.
func MakeAbsolute(maybeRelative, baseURL string) (string, bool) {
	ref := strings.TrimSpace(maybeRelative)
	if ref == "" {
		return "", false
	}

	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if refURL.IsAbs() {
		return ref, true
	}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || !base.IsAbs() {
		return "", false
	}

	return base.ResolveReference(refURL).String(), true
}

// Hostname returns the lower-cased hostname of raw without a leading "www.".
// It returns "" when raw does not parse or has no host.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// ExtractDomain returns the short store key for a URL: a known retail name
// when the host is a common store, otherwise the capitalized first host label.
func ExtractDomain(raw string) string {
	host := Hostname(raw)
	if host == "" {
		return ""
	}

	if name, ok := knownStoreDomains[host]; ok {
		return name
	}
	for domain, name := range knownStoreDomains {
		if strings.HasSuffix(host, "."+domain) {
			return name
		}
	}

	return CapitalizeFirstLabel(host)
}

// CapitalizeFirstLabel turns "flexform.com.br" into "Flexform"
func CapitalizeFirstLabel(host string) string {
	label := host
	if idx := strings.IndexByte(host, '.'); idx >= 0 {
		label = host[:idx]
	}
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
