// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single VALIDATION_ERROR [apperr.AppError].
//
// Handlers validate decoded request bodies, services re-check the rules they
// own, and stores only ever see well-formed values.
//
// Each field reports its first failure only: once "username" fails Required,
// its later rules in the same chain are skipped.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/pkg/uuid"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field errors. It is single-use and not safe for
// concurrent use.
type Validator struct {
	errs   []apperr.FieldError
	failed map[string]struct{}
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// Length fails unless min <= characters <= max.
func (v *Validator) Length(field, value string, min, max int) *Validator {
	count := utf8.RuneCountInString(value)
	return v.check(field, count < min || count > max, fmt.Sprintf("Must be between %d and %d characters", min, max))
}

// MaxLen fails if the character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// MaxBytes fails if the encoded length exceeds max bytes. bcrypt reads at
// most 72 bytes of a password, whatever its character count.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	return v.check(field, len(value) > max, fmt.Sprintf("Maximum %d bytes", max))
}

// Email fails unless value is a bare RFC 5322 address. Display-name forms
// such as "Alice <alice@example.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err != nil || address.Address != value, "Must be a valid email address")
}

// UUID fails unless value is a hyphenated UUID.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, !uuid.Valid(value), "Must be a valid UUID")
}

// OneOf fails if value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.check(field, true, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}

// Custom records message when failed is true.
//
//	v.Custom("tagIds", len(ids) > 5, "Too many tags")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns the collected failures as one VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if !failed {
		return v
	}
	if _, seen := v.failed[field]; seen {
		return v
	}

	if v.failed == nil {
		v.failed = make(map[string]struct{})
	}
	v.failed[field] = struct{}{}
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}
