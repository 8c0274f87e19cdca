// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/agora/pkg/query"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"absent", "", 7},
		{"number", "limit=42", 42},
		{"padded", "limit=%205%20", 5},
		{"negative", "limit=-3", -3},
		{"garbage", "limit=ten", 7},
		{"first_wins", "limit=2&limit=9", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, query.Int(values, "limit", 7))
		})
	}
}

func TestString(t *testing.T) {
	values := url.Values{"categoryId": {"  abc "}}

	assert.Equal(t, "abc", query.String(values, "categoryId"))
	assert.Empty(t, query.String(values, "cursor"))
}
