package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidProductName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"real product", "Monitor LG 27 UltraGear", true},
		{"store name", "Amazon", false},
		{"store domain", "Amazon.com.br", false},
		{"store with suffix", "KaBuM! - Loja de Hardware", false},
		{"store case insensitive", "MERCADO LIVRE", false},
		{"too short", "Mesa", false},
		{"short accented", "Café", false},
		{"empty", "", false},
		{"whitespace", "     ", false},
		{"store word inside product", "Apple Magic Keyboard", true},
		{"product starting with store and dash", "Logitech - MX Master 3S", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidProductName(tt.input))
		})
	}
}

func TestIsBlockedPage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected bool
	}{
		{"human verification", `<html><body><h1>Please verify you are a human</h1></body></html>`, true},
		{"amazon robot check", `<title>Robot Check</title><p>Enter the characters you see below</p>`, true},
		{"cloudflare interstitial", `<html><head><title>Just a moment...</title></head></html>`, true},
		{"akamai access denied", `<H1>Access Denied</H1>You don't have permission`, true},
		{"perimeterx", `<div id="px-captcha"></div>`, true},
		{"datadome", `<script src="https://ct.captcha-delivery.com/c.js"></script>`, true},
		{"ordinary product page", `<html><head><title>Monitor LG 27 | KaBuM!</title></head><body><h1>Monitor</h1></body></html>`, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBlockedPage(tt.html))
		})
	}
}
