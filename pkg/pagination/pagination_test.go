// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/pkg/pagination"
)

/*
TestCursor_RoundTrip verifies that Decode inverts Encode.
*/
func TestCursor_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		id   string
	}{
		{"utc_nanos", time.Date(2026, 3, 1, 12, 30, 45, 123456789, time.UTC), "01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1b2c"},
		{"zone_offset", time.Date(2025, 12, 31, 23, 59, 59, 0, time.FixedZone("JST", 9*3600)), "01961f3e-7a1c-7cc0-9d6e-000000000001"},
		{"epoch", time.Unix(0, 0).UTC(), "00000000-0000-0000-0000-000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := pagination.Decode(pagination.Encode(tt.at, tt.id))
			require.NotNil(t, decoded)

			assert.True(t, tt.at.Equal(decoded.SortValue))
			assert.Equal(t, tt.id, decoded.ID)
		})
	}
}

/*
TestCursor_DecodeMalformed checks that garbage never panics and yields nil.
*/
func TestCursor_DecodeMalformed(t *testing.T) {
	encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	inputs := map[string]string{
		"empty":          "",
		"not_base64":     "garbage-base64!!",
		"no_separator":   encode("2026-01-01T00:00:00Z"),
		"bad_timestamp":  encode("yesterday|abc"),
		"empty_id":       encode("2026-01-01T00:00:00Z|"),
		"only_separator": encode("|"),
		"non_uuid_id":    encode("2026-01-01T00:00:00Z|not-a-uuid'; --"),
		"short_id":       encode("2026-01-01T00:00:00Z|01961f3e-7a1c-7cc0"),
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, pagination.Decode(input))
		})
	}
}

/*
TestCursor_Predicates checks the Go mirrors of the SQL keyset predicates.
*/
func TestCursor_Predicates(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cursor := pagination.Cursor{SortValue: base, ID: "m"}

	assert.True(t, cursor.Before(base.Add(-time.Second), "z"))
	assert.True(t, cursor.Before(base, "a"))
	assert.False(t, cursor.Before(base, "m"))
	assert.False(t, cursor.Before(base.Add(time.Second), "a"))

	assert.True(t, cursor.After(base.Add(time.Second), "a"))
	assert.True(t, cursor.After(base, "z"))
	assert.False(t, cursor.After(base, "m"))
	assert.False(t, cursor.After(base.Add(-time.Second), "z"))
}

/*
TestFromRequest verifies limit clamping and cursor parsing.
*/
func TestFromRequest(t *testing.T) {
	validCursor := pagination.Encode(time.Unix(1700000000, 0).UTC(), "01961f3e-7a1c-7cc0-9d6e-2f1c0c4a1b2c")

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantCursor bool
	}{
		{"defaults", "", pagination.DefaultLimit, false},
		{"explicit", "?limit=10", 10, false},
		{"zero_clamped", "?limit=0", pagination.MinLimit, false},
		{"negative_clamped", "?limit=-5", pagination.MinLimit, false},
		{"huge_clamped", "?limit=5000", pagination.MaxLimit, false},
		{"non_numeric", "?limit=abc", pagination.DefaultLimit, false},
		{"with_cursor", "?limit=5&cursor=" + validCursor, 5, true},
		{"garbage_cursor", "?cursor=not-a-cursor", pagination.DefaultLimit, false},
		{"non_uuid_cursor", "?cursor=" + base64.URLEncoding.EncodeToString([]byte("2026-01-01T00:00:00Z|not-a-uuid")), pagination.DefaultLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/topics"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantLimit+1, params.FetchLimit())
			assert.Equal(t, tt.wantCursor, params.Cursor != nil)
		})
	}
}

type row struct {
	at time.Time
	id string
}

func rowKey(r row) (time.Time, string) { return r.at, r.id }

/*
TestPage verifies that the extra row drives hasNext and the next cursor.
*/
func TestPage(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	const (
		idA = "01961f3e-0000-7000-8000-00000000000a"
		idB = "01961f3e-0000-7000-8000-00000000000b"
		idC = "01961f3e-0000-7000-8000-00000000000c"
	)
	rows := []row{{base, idA}, {base.Add(time.Minute), idB}, {base.Add(2 * time.Minute), idC}}

	t.Run("has_next", func(t *testing.T) {
		page, meta := pagination.Page(rows, 2, rowKey)

		assert.Len(t, page, 2)
		assert.True(t, meta.HasNext)

		next := pagination.Decode(meta.NextCursor)
		require.NotNil(t, next)
		assert.Equal(t, idB, next.ID)
		assert.True(t, next.SortValue.Equal(base.Add(time.Minute)))
	})

	t.Run("last_page", func(t *testing.T) {
		page, meta := pagination.Page(rows, 3, rowKey)

		assert.Len(t, page, 3)
		assert.False(t, meta.HasNext)
		assert.Empty(t, meta.NextCursor)
	})

	t.Run("empty", func(t *testing.T) {
		page, meta := pagination.Page([]row{}, 10, rowKey)

		assert.Empty(t, page)
		assert.False(t, meta.HasNext)
	})
}
