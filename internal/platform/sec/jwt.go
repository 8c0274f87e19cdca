// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth.TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/agora/pkg/uuid"
)

// minSecretLength is the minimum HS256 key size accepted at startup.
const minSecretLength = 32

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and Roles directly inside the JWT,
// the middleware.Authenticate can reconstruct the active user context
// WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string   `json:"uid"`
	Username string   `json:"unm"`
	Roles    []string `json:"roles"`
}

// HighestRole returns the most privileged role carried by the token.
func (claims *AuthClaims) HighestRole() UserRole {
	highest := UserRole("")
	for _, raw := range claims.Roles {
		if role := UserRole(raw); roleRank[role] > roleRank[highest] {
			highest = role
		}
	}
	return highest
}

// TokenConfig holds the immutable settings of a [TokenService].
type TokenConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessTTL time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
	now       func() time.Time
	parser    *jwt.Parser
}

// NewTokenService creates a new TokenService.
//
// Misconfiguration is reported here, once, so the process fails at startup
// instead of on the first request.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("sec: signing secret must be at least %d bytes", minSecretLength)
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("sec: issuer and audience are required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("sec: access token ttl must be positive")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &TokenService{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		accessTTL: cfg.AccessTTL,
		now:       clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(0),
			jwt.WithTimeFunc(clock),
		),
	}, nil
}

// AccessTTL returns the configured lifetime of access tokens.
func (service *TokenService) AccessTTL() time.Duration {
	return service.accessTTL
}

// IssueAccessToken creates a new signed JWT access token for a user.
func (service *TokenService) IssueAccessToken(userID, username string, roles []string) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		UserID:   userID,
		Username: username,
		Roles:    roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// IssueRefreshToken returns a fresh opaque refresh token. The caller persists
// only its [HashToken] digest.
func (service *TokenService) IssueRefreshToken() (string, error) {
	return GenerateSecureToken(SecureTokenLength)
}

// VerifyToken checks the signature, issuer, audience, and expiry of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := service.parser.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}

// ValidateAccessToken is the boolean form of [TokenService.VerifyToken].
func (service *TokenService) ValidateAccessToken(tokenString string) bool {
	_, err := service.VerifyToken(tokenString)
	return err == nil
}
