// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query reads typed values from URL query strings.

Reads are fault tolerant: a missing or malformed value yields the fallback
instead of an error. Handlers that must reject bad input (a malformed
categoryId, for example) validate the raw string explicitly instead.
*/
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// String returns the trimmed value of key, or "" when absent.
func String(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// Int returns key parsed as a base-10 integer, or fallback when it is
// absent or not a number.
func Int(values url.Values, key string, fallback int) int {
	raw := String(values, key)
	if raw == "" {
		return fallback
	}

	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return fallback
}
