// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for keyset (cursor)
// paginated list endpoints.
//
// # Overview
//
// A cursor is an opaque Base64 string wrapping the sort key and the
// tie-break ID of the last row a client has seen. Repositories fetch
// limit+1 rows after the cursor; [Page] trims the extra row and derives
// hasNext/nextCursor from it, so no COUNT query is ever issued.
package pagination

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/agora/pkg/query"
	"github.com/taibuivan/agora/pkg/uuid"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MinLimit is the lower bound for items per page.
	MinLimit = 1
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100

	// separator splits the sort value from the tie-break ID.
	separator = "|"
)

// # Cursor

// Cursor is the decoded resume point of a keyset scan.
type Cursor struct {
	SortValue time.Time
	ID        string
}

// Encode builds an opaque cursor string from a sort value and a tie-break ID.
func Encode(sortValue time.Time, tieBreakID string) string {
	raw := sortValue.UTC().Format(time.RFC3339Nano) + separator + tieBreakID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a cursor string produced by [Encode].
//
// Malformed input yields nil, including a tie-break that is not a UUID.
// Callers treat nil as "start from the beginning".
func Decode(cursor string) *Cursor {
	if cursor == "" {
		return nil
	}

	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}

	sortPart, id, found := strings.Cut(string(raw), separator)
	if !found || !uuid.Valid(id) {
		return nil
	}

	sortValue, err := time.Parse(time.RFC3339Nano, sortPart)
	if err != nil {
		return nil
	}

	return &Cursor{SortValue: sortValue, ID: id}
}

// String re-encodes the cursor.
func (c Cursor) String() string {
	return Encode(c.SortValue, c.ID)
}

// Before reports whether a row keyed by (sortValue, id) comes after the
// cursor in a descending scan.
//
// Mirrors the SQL predicate: sortValue < c.SortValue OR (sortValue = c.SortValue AND id < c.ID).
func (c Cursor) Before(sortValue time.Time, id string) bool {
	if sortValue.Before(c.SortValue) {
		return true
	}
	return sortValue.Equal(c.SortValue) && id < c.ID
}

// After reports whether a row keyed by (sortValue, id) comes after the
// cursor in an ascending scan.
//
// Mirrors the SQL predicate: sortValue > c.SortValue OR (sortValue = c.SortValue AND id > c.ID).
func (c Cursor) After(sortValue time.Time, id string) bool {
	if sortValue.After(c.SortValue) {
		return true
	}
	return sortValue.Equal(c.SortValue) && id > c.ID
}

// # Request Parameters

// Params holds the parsed limit and cursor from a request's query string.
type Params struct {
	Limit  int
	Cursor *Cursor
}

// FetchLimit is the number of rows a repository should read: one extra row
// tells [Page] whether another page exists.
func (p Params) FetchLimit() int {
	return p.Limit + 1
}

// ClampLimit forces limit into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FromRequest parses "limit" and "cursor" query parameters from an HTTP request.
//
// # Clamping
//
// A missing or non-numeric limit falls back to [DefaultLimit]. Out-of-range
// values are clamped, never rejected. An undecodable cursor is ignored.
func FromRequest(r *http.Request) Params {
	values := r.URL.Query()

	return Params{
		Limit:  ClampLimit(query.Int(values, "limit", DefaultLimit)),
		Cursor: Decode(query.String(values, "cursor")),
	}
}

// # Response Metadata

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	HasNext    bool   `json:"hasNext"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Page trims rows fetched with [Params.FetchLimit] down to limit and builds
// the response metadata from the last row kept.
func Page[T any](rows []T, limit int, key func(T) (time.Time, string)) ([]T, Meta) {
	if len(rows) <= limit {
		return rows, Meta{}
	}

	rows = rows[:limit]
	sortValue, id := key(rows[len(rows)-1])

	return rows, Meta{HasNext: true, NextCursor: Encode(sortValue, id)}
}
