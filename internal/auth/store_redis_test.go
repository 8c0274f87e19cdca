// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/auth"
	"github.com/taibuivan/agora/internal/platform/apperr"
)

/*
TestRedisVerificationTokenRepository covers set, get, expiry, and delete.
*/
func TestRedisVerificationTokenRepository(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := auth.NewVerificationTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "tok-1", "u-1", time.Hour))
	assert.True(t, server.Exists("agora:auth:verify:tok-1"))

	userID, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	require.NoError(t, repo.Delete(ctx, "tok-1"))
	_, err = repo.Get(ctx, "tok-1")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, repo.Set(ctx, "tok-2", "u-2", time.Minute))
	server.FastForward(2 * time.Minute)

	_, err = repo.Get(ctx, "tok-2")
	assert.True(t, apperr.IsNotFound(err))
}
