package common

import (
	"net/http"
	"strconv"
)

// PageParams represents cursor pagination parameters for list endpoints
type PageParams struct {
	Limit  int32  `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

const (
	// DefaultPageLimit is applied when the caller does not bound the page
	DefaultPageLimit = 20
	// MaxPageLimit caps a single page regardless of what the caller asks for
	MaxPageLimit = 100
)

// DefaultPageParams returns default pagination parameters
func DefaultPageParams() PageParams {
	return PageParams{Limit: DefaultPageLimit}
}

// ExtractPageParams extracts cursor pagination parameters from a request.
// The cursor is opaque to clients and only valid for the query it was
// issued from.
func ExtractPageParams(r *http.Request) PageParams {
	params := DefaultPageParams()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			if n > MaxPageLimit {
				n = MaxPageLimit
			}
			params.Limit = int32(n)
		}
	}

	params.Cursor = r.URL.Query().Get("next_token")
	return params
}

// Page wraps one page of a list response
type Page struct {
	Items     interface{} `json:"items"`
	NextToken string      `json:"next_token,omitempty"`
	Skipped   int         `json:"skipped_items,omitempty"`
}

// NewPage creates a page response. skipped reports items excluded because
// they could not be decoded, so silent drops stay observable.
func NewPage(items interface{}, nextToken string, skipped int) *Page {
	return &Page{Items: items, NextToken: nextToken, Skipped: skipped}
}
