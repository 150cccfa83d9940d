// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Catalog listings use a fixed page size and an explicit zero-based offset. There is no
// total count: a page is assumed to have a successor when it came back full, so callers
// must tolerate one empty trailing page at the exact end of a collection.
package pagination

const (
	// PageSize is the number of rows per listing page.
	PageSize = 25
	// SuggestionLimit caps lookup and suggestion queries.
	SuggestionLimit = 10
	// ParamOffset is the query parameter carrying the zero-based offset.
	ParamOffset = "offset"
)

// Params holds the window of a listing query.
type Params struct {
	Offset int
	Limit  int
}

// Page returns the listing window starting at offset.
func Page(offset int) Params {
	if offset < 0 {
		offset = 0
	}
	return Params{Offset: offset, Limit: PageSize}
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	Count      int  `json:"count"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset,omitempty"`
}

// NewMeta constructs pagination metadata for a page holding count rows.
//
// HasMore is inferred from count == limit; NextOffset is only set when HasMore is true.
func NewMeta(params Params, count int) Meta {
	meta := Meta{
		Offset: params.Offset,
		Limit:  params.Limit,
		Count:  count,
	}

	if params.Limit > 0 && count == params.Limit {
		next := params.Offset + count
		meta.HasMore = true
		meta.NextOffset = &next
	}

	return meta
}
