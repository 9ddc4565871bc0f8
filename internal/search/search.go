// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fetches raw result documents from a search provider and
// parses them into ResultRecords.
package search

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrUnavailable marks a provider that could not deliver a response:
	// connect failure, transport error, timeout, or a non-200 status.
	ErrUnavailable = errors.New("search provider unavailable")

	// ErrMalformedResponse marks a response that is not well-formed XML.
	ErrMalformedResponse = errors.New("malformed search response")
)

// Provider returns the raw response document for a keyword query. An empty
// string with a nil error is a valid, empty response; failures to connect
// are always errors wrapping ErrUnavailable.
type Provider interface {
	Search(ctx context.Context, keywords []string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, keywords []string) (string, error)

// Search calls f.
func (f ProviderFunc) Search(ctx context.Context, keywords []string) (string, error) {
	return f(ctx, keywords)
}

// JoinKeywords joins keywords with spaces and escapes the result as a
// single URL path segment, so spaces travel as %20.
func JoinKeywords(keywords []string) string {
	return url.PathEscape(strings.Join(keywords, " "))
}
