// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements forum identity and the refresh-token session lifecycle.

# Session lifecycle

	Anonymous -> Authenticated(access, refresh) -> Refreshed(new pair) -> Revoked/Expired -> Anonymous

Access tokens are stateless JWTs and cannot be revoked. Refresh tokens are
opaque, stored only as SHA-256 digests, and are single-use: every refresh
revokes the presented token before a new pair is issued.
*/
package auth

import (
	"time"

	"github.com/taibuivan/agora/internal/platform/sec"
)

// # Domain Entities

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
)

// IsValid reports whether s is a known status.
func (s UserStatus) IsValid() bool {
	return s == StatusActive || s == StatusSuspended
}

// User represents a registered forum member.
type User struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"` // Explicitly omitted from JSON for security.
	Role          sec.UserRole `json:"role"`
	Status        UserStatus   `json:"status"`
	EmailVerified bool         `json:"emailVerified"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// IsSuspended reports whether the account is barred from signing in.
func (user *User) IsSuspended() bool {
	return user.Status == StatusSuspended
}

// RefreshToken is a persisted session record. The raw token never leaves
// the response that issued it; only TokenHash is stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash []byte
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the token can still be exchanged at now.
func (token *RefreshToken) IsActive(now time.Time) bool {
	return token.RevokedAt == nil && token.ExpiresAt.After(now)
}

// TokenPair is the credential bundle returned by login and refresh.
type TokenPair struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// # Constants

const (
	// TokenTypeBearer is the only token type issued.
	TokenTypeBearer = "Bearer"

	// VerificationTokenTTL is how long an email verification link stays valid.
	VerificationTokenTTL = 24 * time.Hour
)

// # Input Limits

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// # Field Identifiers

// Request field names shared by validation and error details.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refreshToken"
	FieldToken        = "token"
	FieldStatus       = "status"
	FieldUserID       = "userId"
)

// # Messages

// Client-facing failure messages. Login failures share one message so that
// a probe cannot tell an unknown email from a wrong password.
const (
	msgInvalidCredentials  = "Invalid email or password"
	msgAccountSuspended    = "Account is suspended"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgUserUnavailable     = "User not found or suspended"
	msgEmailExists         = "Email already exists"
	msgUsernameExists      = "Username already exists"
)
