// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for search-refiner.
//
// ResultRecord is the unit every stage agrees on: providers return raw
// documents, the parser turns them into ResultRecords, judges and refiners
// consume them, and the report renders them.
package types

// PageSize is the fixed number of results requested per search and the
// denominator of the precision target.
const PageSize = 10

// ResultRecord is one search hit. Records are created by the parser and
// never modified afterwards; pass them by value.
type ResultRecord struct {
	// Title is the trimmed title text. It is empty when the source sent an
	// empty title element.
	Title string `json:"title" yaml:"title"`

	// URL is the trimmed target URL of the hit.
	URL string `json:"url" yaml:"url"`

	// Summary is the abstract text, or "" when the source sent a childless
	// or missing abstract element.
	Summary string `json:"summary" yaml:"summary"`
}
