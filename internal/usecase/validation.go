package usecase

import (
	"strings"
	"unicode/utf8"
)

const minProductNameLength = 5

// blockedPageIndicators are lower-cased markers of CAPTCHA walls and
// bot-detection vendors.
var blockedPageIndicators = []string{
	"please verify you are a human",
	"verify you are human",
	"robot check",
	"are you a robot",
	"access denied",
	"unusual traffic",
	"enter the characters you see below",
	"sorry, we just need to make sure you're not a robot",
	"<title>just a moment...</title>",
	"checking your browser before accessing",
	"cf-browser-verification",
	"px-captcha",
	"_pxcaptcha",
	"captcha-delivery.com",
	"incapsula incident",
	"_incapsula_resource",
	"distil_r_captcha",
}

// storeNameDenylist holds storefront titles that parsers sometimes return in
// place of a product name.
var storeNameDenylist = []string{
	"amazon",
	"amazon.com",
	"amazon.com.br",
	"amazon brasil",
	"mercado livre",
	"mercadolivre",
	"magazine luiza",
	"magalu",
	"kabum",
	"kabum!",
	"pichau",
	"terabyte",
	"terabyteshop",
	"americanas",
	"submarino",
	"casas bahia",
	"fast shop",
	"shopee",
	"aliexpress",
	"ikea",
	"leroy merlin",
	"mobly",
	"tok&stok",
	"tok & stok",
	"madeiramadeira",
	"apple",
	"logitech",
	"dell",
	"samsung",
}

// IsBlockedPage reports whether the HTML is an anti-bot challenge rather than
// the requested page.
func IsBlockedPage(rawHTML string) bool {
	lower := strings.ToLower(rawHTML)
	for _, indicator := range blockedPageIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// IsValidProductName rejects empty or very short names and names that are
// only a storefront title, such as "Amazon.com.br" or "KaBuM! - Loja".
func IsValidProductName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < minProductNameLength {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, store := range storeNameDenylist {
		if lower == store || strings.HasPrefix(lower, store+" - ") {
			return false
		}
	}
	return true
}
