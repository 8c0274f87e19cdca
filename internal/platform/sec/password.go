// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/agora/internal/platform/apperr"
)

// maxPasswordBytes is the bcrypt input limit. Longer inputs would be
// silently truncated by older implementations, so they are rejected.
const maxPasswordBytes = 72

// PasswordHasher derives and verifies salted bcrypt password digests.
//
// # Concurrency
//
// The hasher holds only its immutable cost and is safe for concurrent use.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt work factor,
// clamped to [bcrypt.MinCost, bcrypt.MaxCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash hashes a plain-text password using the bcrypt algorithm.
//
// A random salt is generated per call and embedded in the digest, so two
// hashes of the same password never match byte for byte.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	if strings.TrimSpace(plainTextPassword) == "" {
		return "", apperr.InvalidArgument("Password must not be empty")
	}

	if len(plainTextPassword) > maxPasswordBytes {
		return "", apperr.InvalidArgument(fmt.Sprintf("Password must not exceed %d bytes", maxPasswordBytes))
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.InvalidArgument(fmt.Sprintf("Password must not exceed %d bytes", maxPasswordBytes))
		}
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
//
// It returns false for empty input and for digests that are not bcrypt.
func (hasher *PasswordHasher) Verify(plainTextPassword, existingHash string) bool {
	if plainTextPassword == "" || existingHash == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
