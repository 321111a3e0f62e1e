package urlutil

import (
	"net/url"
	"path"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// imageBadHints mark URLs that are almost never the product photo
var imageBadHints = []string{
	"favicon",
	"sprite",
	"pixel",
	"spacer",
	"placeholder",
	"logo",
	"blank.gif",
	"1x1",
}

// ResolveImageURL makes ref absolute against baseURL and accepts the result
// only when it is an http(s) URL. javascript:, data: and other schemes are
// rejected.
func ResolveImageURL(ref, baseURL string) (string, bool) {
	abs, ok := MakeAbsolute(ref, baseURL)
	if !ok || !IsValidURL(abs) {
		return "", false
	}
	return abs, true
}

// IsPlausibleImageURL reports whether raw looks like a usable product image:
// an absolute http(s) URL that is not a data URI, tracking pixel or logo.
// Extensionless URLs are accepted since many CDNs serve images without one.
func IsPlausibleImageURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(strings.ToLower(raw), "data:") {
		return false
	}
	if !IsValidURL(raw) {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	lower := strings.ToLower(u.Path)
	for _, hint := range imageBadHints {
		if strings.Contains(lower, hint) {
			return false
		}
	}

	ext := path.Ext(lower)
	if ext == "" {
		return true
	}
	if imageExtensions[ext] {
		return true
	}
	// .svg and .ico are icons; anything else with an extension is a page or script
	return false
}
