// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

Every primary key in Agora is generated here, in Go, before the INSERT.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// canonicalLength is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLength = 36

// # Validation

// Valid reports whether s is a UUID of any version in the hyphenated
// 8-4-4-4-12 form. Braced and urn:uuid: spellings are rejected.
func Valid(s string) bool {
	return len(s) == canonicalLength && uuid.Validate(s) == nil
}
