package htmlparse

import (
	"regexp"
	"strings"
)

// TitleCleaner strips storefront and marketing noise from a page <title>
type TitleCleaner struct {
	patterns []*regexp.Regexp
}

// storeNamePattern lists retailers whose name is appended to product titles
const storeNamePattern = `(?:amazon(?:\.com)?(?:\.br)?|mercado\s*livre|magazine\s*luiza|magalu|kabum!?|pichau|terabyte(?:shop)?|americanas|submarino|casas\s*bahia|fast\s*shop|shopee|aliexpress|leroy\s*merlin|tok\s*&\s*stok|mobly|madeira\s*madeira)`

// Compiled title noise patterns, applied in order
var (
	// "Amazon.com.br: Monitor LG ..." style prefixes
	leadingStorePattern = regexp.MustCompile(`(?i)^\s*amazon(?:\.com)?(?:\.br)?\s*[:|\-–—]\s*`)

	// "Compre Monitor LG ..."
	leadingComprePattern = regexp.MustCompile(`(?i)^\s*compre\s+`)

	// "... | KaBuM!", "... - Magazine Luiza", "... : Amazon.com.br: Computadores"
	trailingStorePattern = regexp.MustCompile(`(?i)\s*[|\-–—:]\s*` + storeNamePattern + `(?:[^\p{L}\p{N}].*)?$`)

	// "... | Compre agora", "... - Compre online"
	trailingComprePattern = regexp.MustCompile(`(?i)\s*[|\-–—]\s*compre\b.*$`)

	// "... Frete Grátis", "... - Frete grátis para todo Brasil"
	trailingFretePattern = regexp.MustCompile(`(?i)\s*[|\-–—]?\s*\bfrete\b.*$`)

	// "... em até 12x sem juros"
	trailingInstallmentPattern = regexp.MustCompile(`(?i)\s*[|\-–—]?\s*\bem\s+at[ée](?:\s.*)?$`)

	// "... - R$ 1.299,90"
	trailingPricePattern = regexp.MustCompile(`(?i)\s*[|\-–—:]?\s*(?:R\$|US\$|\$)\s*[\d.,]+\s*$`)

	// dangling separators left after stripping
	trailingSeparatorPattern = regexp.MustCompile(`[\s|\-–—:]+$`)
)

// NewTitleCleaner creates a cleaner with the built-in storefront patterns
func NewTitleCleaner() *TitleCleaner {
	return &TitleCleaner{
		patterns: []*regexp.Regexp{
			leadingStorePattern,
			leadingComprePattern,
			trailingPricePattern,
			trailingStorePattern,
			trailingComprePattern,
			trailingFretePattern,
			trailingInstallmentPattern,
			trailingPricePattern,
		},
	}
}

// Clean returns the title without store suffixes, sales pitches and prices
func (c *TitleCleaner) Clean(title string) string {
	cleaned := whitespaceRegex.ReplaceAllString(title, " ")
	for _, pattern := range c.patterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
		cleaned = trailingSeparatorPattern.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}
