package domain

// AffiliateType selects the rewrite strategy for a store
type AffiliateType string

const (
	AffiliateParameter AffiliateType = "parameter"
	AffiliateRedirect  AffiliateType = "redirect"
	// AffiliateReplace is reserved; the transformer passes URLs through unchanged.
	AffiliateReplace AffiliateType = "replace"
)

// Template placeholders understood by the redirect strategy
const (
	PlaceholderURL  = "{{URL}}"
	PlaceholderCode = "{{CODE}}"
)

// AffiliateConfig is a per-store monetization rule owned by the admin workflow.
// The engine only reads it.
type AffiliateConfig struct {
	StoreKey         string        `json:"storeKey" mapstructure:"store_key"`
	StoreName        string        `json:"storeName" mapstructure:"store_name"`
	Domains          []string      `json:"domains" mapstructure:"domains"`
	AffiliateType    AffiliateType `json:"affiliateType" mapstructure:"affiliate_type"`
	AffiliateParam   *string       `json:"affiliateParam" mapstructure:"affiliate_param"`
	AffiliateCode    *string       `json:"affiliateCode" mapstructure:"affiliate_code"`
	RedirectTemplate *string       `json:"redirectTemplate" mapstructure:"redirect_template"`
	IsActive         bool          `json:"isActive" mapstructure:"is_active"`
}

// Actionable reports whether the config carries enough data to rewrite a URL
func (c AffiliateConfig) Actionable() bool {
	return c.IsActive && c.AffiliateCode != nil && *c.AffiliateCode != ""
}

// TransformResult is the outcome of TransformToAffiliateURL
type TransformResult struct {
	OriginalURL    string  `json:"originalUrl"`
	TransformedURL string  `json:"transformedUrl"`
	WasTransformed bool    `json:"wasTransformed"`
	StoreKey       *string `json:"storeKey"`
	StoreName      *string `json:"storeName"`
	Error          *string `json:"error"`
}
