// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Finder methods return an apperr NOT_FOUND error when no row matches.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (exact, case-sensitive match).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict on a duplicate email or username
	*/
	Create(context context.Context, user *User) error

	// Update persists role, status, email verification, and password hash.
	Update(context context.Context, user *User) error
}

// # Refresh Token Data Access

// RefreshTokenStore persists hashed refresh tokens.
//
// # Atomicity
//
// Revoke must be a conditional "revoke if not already revoked" so that two
// concurrent refreshes of one token cannot both succeed.
type RefreshTokenStore interface {

	/*
		Create persists a new refresh token record.

		Returns:
		  - string: The stored record ID
		  - error: Persistence failures
	*/
	Create(context context.Context, token *RefreshToken) (string, error)

	/*
		FindActiveByHash returns the record whose hash matches exactly and
		which is neither revoked nor expired at now.

		Returns:
		  - *RefreshToken: nil when no active record matches
		  - error: Retrieval failures only
	*/
	FindActiveByHash(context context.Context, tokenHash []byte, now time.Time) (*RefreshToken, error)

	/*
		Revoke marks the record revoked at now.

		Returns:
		  - bool: true only if this call performed the revocation
		  - error: Persistence failures (revoking twice is not an error)
	*/
	Revoke(context context.Context, id string, now time.Time) (bool, error)

	// RevokeAllForUser revokes every active record of a user and returns how many changed.
	RevokeAllForUser(context context.Context, userID string, now time.Time) (int64, error)
}

// # Verification Token Data Access

// VerificationTokenRepository stores short-lived email verification tokens.
type VerificationTokenRepository interface {
	// Set stores token -> userID with the given TTL.
	Set(context context.Context, token, userID string, ttl time.Duration) error

	// Get returns the owner of token, or apperr.NotFound when absent or expired.
	Get(context context.Context, token string) (string, error)

	// Delete removes token. Deleting a missing token is not an error.
	Delete(context context.Context, token string) error
}
