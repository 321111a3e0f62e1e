package domain

import "time"

// StoreReliability is how much the catalog trusts extraction results from a store
type StoreReliability string

const (
	ReliabilityHigh    StoreReliability = "high"
	ReliabilityMedium  StoreReliability = "medium"
	ReliabilityLow     StoreReliability = "low"
	ReliabilityUnknown StoreReliability = "unknown"
)

// ExtractedProduct is the normalized record produced by a successful extraction.
// It is never mutated after the extraction call returns.
type ExtractedProduct struct {
	Name             string           `json:"name"`
	Price            *string          `json:"price"`
	PriceValue       *float64         `json:"priceValue"`
	Image            *string          `json:"image"`
	Store            string           `json:"store"`
	StoreName        string           `json:"storeName"`
	StoreReliability StoreReliability `json:"storeReliability"`
	OriginalURL      string           `json:"originalUrl"`
	PriceCapturedAt  *time.Time       `json:"priceCapturedAt"`
}

// PartialData holds the best-effort fields gathered before an extraction failed,
// so a manual-entry form can be pre-filled.
type PartialData struct {
	Name             string           `json:"name,omitempty"`
	Price            *string          `json:"price,omitempty"`
	PriceValue       *float64         `json:"priceValue,omitempty"`
	Image            *string          `json:"image,omitempty"`
	Store            string           `json:"store,omitempty"`
	StoreName        string           `json:"storeName,omitempty"`
	StoreReliability StoreReliability `json:"storeReliability,omitempty"`
	OriginalURL      string           `json:"originalUrl,omitempty"`
}

// ExtractionErrorKind is the failure taxonomy of the extraction pipeline
type ExtractionErrorKind string

const (
	KindInvalidURL         ExtractionErrorKind = "invalid_url"
	KindFetchTimeout       ExtractionErrorKind = "fetch_timeout"
	KindNetworkError       ExtractionErrorKind = "network_error"
	KindNonSuccessResponse ExtractionErrorKind = "non_success_response"
	KindEmptyOrInvalidBody ExtractionErrorKind = "empty_or_invalid_body"
	KindBlockedByAntiBot   ExtractionErrorKind = "blocked_by_anti_bot"
	KindNoNameExtracted    ExtractionErrorKind = "no_name_extracted"
	KindInvalidProductName ExtractionErrorKind = "invalid_product_name"
)

// Retryable reports whether a calling workflow may retry the extraction later.
// Blocked pages and unusable names are deterministic and must not be retried.
func (k ExtractionErrorKind) Retryable() bool {
	switch k {
	case KindFetchTimeout, KindNetworkError, KindNonSuccessResponse:
		return true
	default:
		return false
	}
}

// ExtractionResult is the tagged outcome of ExtractProductData
type ExtractionResult struct {
	Success     bool                `json:"success"`
	Data        *ExtractedProduct   `json:"data,omitempty"`
	Error       string              `json:"error,omitempty"`
	ErrorKind   ExtractionErrorKind `json:"errorKind,omitempty"`
	PartialData *PartialData        `json:"partialData,omitempty"`
}

// BatchItem ties a batch extraction result back to the URL that produced it
type BatchItem struct {
	URL    string           `json:"url"`
	Result ExtractionResult `json:"result"`
}

// FetchedPage is the raw response of a page fetch
type FetchedPage struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        string
}

// PartialProduct is what a single HTML parser recovers from a page.
// Price is the raw, unparsed price text.
type PartialProduct struct {
	Name  string
	Price string
	Image string
}

// BatchResult is the outcome of a bounded batch extraction
type BatchResult struct {
	BatchID string      `json:"batchId"`
	Items   []BatchItem `json:"items"`
}
