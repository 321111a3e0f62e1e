// Package stores is the static registry of known retailers.
package stores

import (
	"strings"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/urlutil"
)

// Registry resolves URLs to store metadata. Entries are scanned in
// declaration order and the first match wins, so overlapping patterns
// (apple.com/br before apple.com, for instance) resolve to whichever entry
// is declared first.
type Registry struct {
	stores []domain.StoreConfig
}

// NewRegistry builds a registry over the given entries, keeping their order
func NewRegistry(entries []domain.StoreConfig) *Registry {
	stores := make([]domain.StoreConfig, len(entries))
	copy(stores, entries)
	return &Registry{stores: stores}
}

// Default returns the built-in registry
func Default() *Registry {
	return NewRegistry(defaultStores)
}

// Stores returns a copy of the registry entries in match order
func (r *Registry) Stores() []domain.StoreConfig {
	out := make([]domain.StoreConfig, len(r.stores))
	copy(out, r.stores)
	return out
}

// FindStoreByDomain returns the first entry whose domain pattern matches the
// URL host, or nil.
func (r *Registry) FindStoreByDomain(rawURL string) *domain.StoreConfig {
	host := urlutil.Hostname(rawURL)
	if host == "" {
		return nil
	}

	for i := range r.stores {
		for _, pattern := range r.stores[i].Domains {
			if MatchesDomain(host, pattern) {
				store := r.stores[i]
				return &store
			}
		}
	}
	return nil
}

// GetStoreName returns the registry display name for a URL, falling back to
// the capitalized first DNS label.
func (r *Registry) GetStoreName(rawURL string) string {
	if store := r.FindStoreByDomain(rawURL); store != nil {
		return store.Name
	}
	return urlutil.CapitalizeFirstLabel(urlutil.Hostname(rawURL))
}

// GetReliability returns the registry reliability for a URL or "unknown"
func (r *Registry) GetReliability(rawURL string) domain.StoreReliability {
	if store := r.FindStoreByDomain(rawURL); store != nil {
		return store.Reliability
	}
	return domain.ReliabilityUnknown
}

// MatchesDomain reports whether a www-stripped host matches a domain pattern.
// A pattern matches its exact host and any strict subdomain of it. For a
// pattern carrying a path ("logitech.com/pt-br") only the domain portion is
// compared; the path is not checked.
func MatchesDomain(host, pattern string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	pattern = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(pattern)), "www.")
	if idx := strings.IndexByte(pattern, '/'); idx >= 0 {
		pattern = pattern[:idx]
	}
	if host == "" || pattern == "" {
		return false
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}
