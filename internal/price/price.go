// Package price turns scraped price text into a canonical value and a BRL
// display string.
package price

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Price is a parsed, strictly positive price
type Price struct {
	Formatted string  `json:"formatted"`
	Value     float64 `json:"value"`
}

var nonNumericRegex = regexp.MustCompile(`[^\d.,]`)

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Parse converts a raw price (string, number or nil) into a Price. It returns
// nil for empty, non-numeric, non-finite or non-positive input.
//
// When both "." and "," occur, the one appearing last is the decimal
// separator. A lone comma is a decimal separator. A separator that occurs more
// than once is treated as a thousands separator.
func Parse(raw any) *Price {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return fromValue(v)
	case float32:
		return fromValue(float64(v))
	case int:
		return fromValue(float64(v))
	case int64:
		return fromValue(float64(v))
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	case *string:
		if v == nil {
			return nil
		}
		return parseString(*v)
	default:
		return nil
	}
}

func parseString(raw string) *Price {
	if isNegative(raw) {
		return nil
	}

	cleaned := nonNumericRegex.ReplaceAllString(raw, "")
	if cleaned == "" {
		return nil
	}

	normalized := normalizeSeparators(cleaned)

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil
	}
	return fromValue(value)
}

// normalizeSeparators rewrites a digits-and-separators string into Go float syntax
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return decimalSeparator(strings.ReplaceAll(s, ".", ""), ",")
		}
		return decimalSeparator(strings.ReplaceAll(s, ",", ""), ".")
	case lastComma >= 0:
		return decimalSeparator(s, ",")
	default:
		return decimalSeparator(s, ".")
	}
}

// decimalSeparator treats a single occurrence of sep as the decimal point and
// repeated occurrences as thousands grouping.
func decimalSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// isNegative reports whether a minus sign precedes the first digit
func isNegative(raw string) bool {
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			return false
		}
		if r == '-' || r == '−' {
			return true
		}
	}
	return false
}

func fromValue(v float64) *Price {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &Price{
		Formatted: Format(v),
		Value:     v,
	}
}

// Format renders a value in BRL, e.g. "R$ 1.299,90". Display currency is
// fixed to BRL regardless of the detected input locale.
func Format(v float64) string {
	return "R$ " + brlPrinter.Sprintf("%.2f", v)
}
