package htmlparse

import (
	"strings"

	"github.com/setupscatalog/linkengine/internal/urlutil"
)

// ImageKind tags the JSON-LD shape an ImageRef was built from
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageSingle
	ImageList
	ImageObject
)

// ImageRef normalizes the heterogeneous schema.org "image" property: a plain
// string, a list of strings or ImageObjects, or a single ImageObject.
type ImageRef struct {
	Kind ImageKind
	URLs []string
}

// imageObjectKeys are checked in order on ImageObject-like maps
var imageObjectKeys = []string{"url", "@url", "contentUrl"}

// NewImageRef classifies a decoded JSON value
func NewImageRef(v any) ImageRef {
	switch img := v.(type) {
	case string:
		if s := strings.TrimSpace(img); s != "" {
			return ImageRef{Kind: ImageSingle, URLs: []string{s}}
		}
	case []any:
		var urls []string
		for _, item := range img {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					urls = append(urls, s)
				}
			case map[string]any:
				if s := imageObjectURL(it); s != "" {
					urls = append(urls, s)
				}
			}
		}
		if len(urls) > 0 {
			return ImageRef{Kind: ImageList, URLs: urls}
		}
	case map[string]any:
		if s := imageObjectURL(img); s != "" {
			return ImageRef{Kind: ImageObject, URLs: []string{s}}
		}
	}
	return ImageRef{Kind: ImageNone}
}

func imageObjectURL(obj map[string]any) string {
	for _, key := range imageObjectKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Resolve returns the first candidate that resolves to an absolute http(s)
// URL against baseURL, or "".
func (r ImageRef) Resolve(baseURL string) string {
	for _, candidate := range r.URLs {
		if abs, ok := urlutil.ResolveImageURL(candidate, baseURL); ok {
			return abs
		}
	}
	return ""
}
