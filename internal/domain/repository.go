package domain

import "context"

// PageFetcher retrieves the server-rendered HTML of a product page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedPage, error)
}

// AffiliateConfigStore is the persistent source of affiliate rules.
// Implementations return only rows with isActive=true.
type AffiliateConfigStore interface {
	ListActive(ctx context.Context) ([]AffiliateConfig, error)
}

// AffiliateConfigProvider serves the (cached) active affiliate rules
type AffiliateConfigProvider interface {
	GetActiveConfigs(ctx context.Context) ([]AffiliateConfig, error)
}

// CacheInvalidator forces the next affiliate config read to refresh
type CacheInvalidator interface {
	InvalidateCache()
}

// UpdateNotifier broadcasts that affiliate rules changed
type UpdateNotifier interface {
	NotifyUpdate(ctx context.Context) error
}
