package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a URL does not parse or is not http(s)
	ErrInvalidURL = errors.New("invalid URL")

	// ErrFetchTimeout is returned when the page fetch deadline expires
	ErrFetchTimeout = errors.New("page fetch timed out")

	// ErrNetwork is returned for transport-level failures other than the fetch deadline
	ErrNetwork = errors.New("network error while fetching page")

	// ErrNonSuccessResponse is returned when the target site answers with a non-2xx status
	ErrNonSuccessResponse = errors.New("non-success HTTP response")

	// ErrEmptyOrInvalidBody is returned when the body is empty, too short or not HTML
	ErrEmptyOrInvalidBody = errors.New("empty or invalid response body")

	// ErrBlockedByAntiBot is returned when the page is an anti-bot challenge
	ErrBlockedByAntiBot = errors.New("site blocked automated extraction")

	// ErrNoNameExtracted is returned when no parser recovered a product name
	ErrNoNameExtracted = errors.New("no product name extracted")

	// ErrInvalidProductName is returned when the recovered name is a store name or too short
	ErrInvalidProductName = errors.New("could not identify the product")

	// ErrStoreUnavailable is returned when the affiliate config store cannot be read
	ErrStoreUnavailable = errors.New("affiliate config store unavailable")

	// ErrStrategyFailed is returned when an affiliate rewrite strategy cannot be applied
	ErrStrategyFailed = errors.New("affiliate strategy application failed")
)

// StatusError carries the HTTP status of a non-2xx page response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s", e.StatusCode, e.URL)
}

// Unwrap lets errors.Is match ErrNonSuccessResponse.
func (e *StatusError) Unwrap() error {
	return ErrNonSuccessResponse
}
