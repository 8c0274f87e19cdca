// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/taibuivan/agora/pkg/uuid"
)

// MemoryRefreshTokenStore is a process-local [RefreshTokenStore] used by
// tests and single-node development setups.
//
// Revoke holds the mutex across its check and write, reproducing the
// conditional UPDATE of the PostgreSQL store.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

// NewMemoryRefreshTokenStore returns an empty store.
func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[string]*RefreshToken)}
}

// Create stores a copy of token.
func (store *MemoryRefreshTokenStore) Create(_ context.Context, token *RefreshToken) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.New()
	}

	stored := *token
	stored.TokenHash = bytes.Clone(token.TokenHash)
	store.tokens[stored.ID] = &stored

	return stored.ID, nil
}

// FindActiveByHash returns a copy of the matching active record, or nil.
func (store *MemoryRefreshTokenStore) FindActiveByHash(_ context.Context, tokenHash []byte, now time.Time) (*RefreshToken, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, token := range store.tokens {
		if bytes.Equal(token.TokenHash, tokenHash) && token.IsActive(now) {
			found := *token
			return &found, nil
		}
	}

	return nil, nil
}

// Revoke reports true only for the call that flips revokedAt from nil.
func (store *MemoryRefreshTokenStore) Revoke(_ context.Context, id string, now time.Time) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	token, ok := store.tokens[id]
	if !ok || token.RevokedAt != nil {
		return false, nil
	}

	revokedAt := now
	token.RevokedAt = &revokedAt
	return true, nil
}

// RevokeAllForUser revokes every unrevoked record of userID.
func (store *MemoryRefreshTokenStore) RevokeAllForUser(_ context.Context, userID string, now time.Time) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var count int64
	for _, token := range store.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			revokedAt := now
			token.RevokedAt = &revokedAt
			count++
		}
	}

	return count, nil
}
