// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/constants"
)

// # Verification Token Repository

// RedisVerificationTokenRepository implements [VerificationTokenRepository] using Redis.
type RedisVerificationTokenRepository struct {
	client redis.Cmdable
}

// NewVerificationTokenRepository creates a new Redis-backed VerificationTokenRepository.
func NewVerificationTokenRepository(client redis.Cmdable) *RedisVerificationTokenRepository {
	return &RedisVerificationTokenRepository{client: client}
}

func verificationKey(token string) string {
	return constants.RedisPrefixVerifyToken + token
}

/*
Set stores a verification token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisVerificationTokenRepository) Set(context context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, verificationKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_set_failed: %w", err)
	}
	return nil
}

// Get retrieves the userID for a given token.
func (repository *RedisVerificationTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, verificationKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Verification token")
		}
		return "", fmt.Errorf("redis_verify_token_get_failed: %w", err)
	}
	return userID, nil
}

// Delete removes the token from Redis.
func (repository *RedisVerificationTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, verificationKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_delete_failed: %w", err)
	}
	return nil
}
