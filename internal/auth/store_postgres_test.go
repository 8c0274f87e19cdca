// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/auth"
	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/sec"
)

var userColumns = []string{
	"id", "username", "email", "passwordhash", "role", "status", "emailverified", "createdat", "updatedat",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

/*
TestPostgresUserRepository_FindByEmail maps rows and missing rows.
*/
func TestPostgresUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := auth.NewUserRepository(mock)
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, username, email, passwordhash, role, status, emailverified, createdat, updatedat FROM users.account WHERE email = \$1`).
		WithArgs("alice@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("u-1", "alice", "alice@x.com", "$2a$04$digest", sec.RoleMember, auth.StatusActive, false, created, created))

	user, err := repo.FindByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, created.Equal(user.CreatedAt))

	mock.ExpectQuery(`FROM users.account WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindByEmail(context.Background(), "nobody@x.com")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestPostgresUserRepository_CreateConflicts translates unique violations.
*/
func TestPostgresUserRepository_CreateConflicts(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		message    string
	}{
		{"email", "account_email_key", "Email already exists"},
		{"username", "account_username_key", "Username already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := auth.NewUserRepository(mock)

			mock.ExpectExec(`INSERT INTO users.account`).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &auth.User{ID: "u-1", Username: "alice", Email: "alice@x.com"})

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "CONFLICT", appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

/*
TestPostgresUserRepository_Update reports vanished accounts.
*/
func TestPostgresUserRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := auth.NewUserRepository(mock)
	user := &auth.User{ID: "u-1", Role: sec.RoleMember, Status: auth.StatusSuspended}

	mock.ExpectExec(`UPDATE users.account`).
		WithArgs("u-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Update(context.Background(), user))

	mock.ExpectExec(`UPDATE users.account`).
		WithArgs("u-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.True(t, apperr.IsNotFound(repo.Update(context.Background(), user)))
}

/*
TestPostgresRefreshTokenStore_Create assigns an ID when none is given.
*/
func TestPostgresRefreshTokenStore_Create(t *testing.T) {
	mock := newMockPool(t)
	store := auth.NewRefreshTokenStore(mock)

	mock.ExpectExec(`INSERT INTO users.refreshtoken`).
		WithArgs(pgxmock.AnyArg(), "u-1", pgxmock.AnyArg(), "agent", "10.0.0.1",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := store.Create(context.Background(), &auth.RefreshToken{
		UserID:    "u-1",
		TokenHash: sec.HashToken("raw"),
		UserAgent: "agent",
		IPAddress: "10.0.0.1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

/*
TestPostgresRefreshTokenStore_FindActiveByHash filters in SQL and maps absence to nil.
*/
func TestPostgresRefreshTokenStore_FindActiveByHash(t *testing.T) {
	mock := newMockPool(t)
	store := auth.NewRefreshTokenStore(mock)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	digest := sec.HashToken("raw")

	columns := []string{"id", "userid", "tokenhash", "useragent", "ipaddress", "expiresat", "revokedat", "createdat"}
	mock.ExpectQuery(`FROM users.refreshtoken\s+WHERE tokenhash = \$1 AND revokedat IS NULL AND expiresat > \$2`).
		WithArgs(digest, now).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("t-1", "u-1", digest, "agent", "10.0.0.1", now.Add(time.Hour), (*time.Time)(nil), now))

	record, err := store.FindActiveByHash(context.Background(), digest, now)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "t-1", record.ID)
	assert.Nil(t, record.RevokedAt)

	mock.ExpectQuery(`FROM users.refreshtoken`).
		WithArgs(digest, now).
		WillReturnError(pgx.ErrNoRows)

	record, err = store.FindActiveByHash(context.Background(), digest, now)
	require.NoError(t, err)
	assert.Nil(t, record)
}

/*
TestPostgresRefreshTokenStore_Revoke reports whether this call revoked the row.
*/
func TestPostgresRefreshTokenStore_Revoke(t *testing.T) {
	mock := newMockPool(t)
	store := auth.NewRefreshTokenStore(mock)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users.refreshtoken SET revokedat = \$2 WHERE id = \$1 AND revokedat IS NULL`).
		WithArgs("t-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users.refreshtoken SET revokedat = \$2 WHERE id = \$1 AND revokedat IS NULL`).
		WithArgs("t-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	first, err := store.Revoke(context.Background(), "t-1", now)
	require.NoError(t, err)
	second, err := store.Revoke(context.Background(), "t-1", now)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	mock.ExpectExec(`WHERE userid = \$1 AND revokedat IS NULL`).
		WithArgs("u-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := store.RevokeAllForUser(context.Background(), "u-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	mock.ExpectExec(`UPDATE users.refreshtoken`).
		WithArgs("t-2", now).
		WillReturnError(errors.New("connection reset"))

	_, err = store.Revoke(context.Background(), "t-2", now)
	assert.ErrorContains(t, err, "connection reset")
}
