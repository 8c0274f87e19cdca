// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/database/schema"
	"github.com/taibuivan/agora/internal/platform/dberr"
	"github.com/taibuivan/agora/internal/platform/postgres"
	"github.com/taibuivan/agora/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userSelect is the projection shared by every user finder.
var userSelect = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == nil && !user.Role.IsValid() {
		err = fmt.Errorf("unknown role %q on account %s", user.Role, user.ID)
	}
	return user, err
}

// findOne runs a single-row user lookup on column = value.
func (repository *PostgresUserRepository) findOne(context context.Context, column, value, operation string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, userSelect, column)

	user, err := scanUser(repository.db.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}

	return user, nil
}

// FindByID retrieves a user record by its primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id, "find_by_id")
}

// FindByEmail retrieves a user record by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email, "find_by_email")
}

// FindByUsername retrieves a user record by its unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username, "find_by_username")
}

/*
Create persists a new user record into the users.account table.

Description: A unique violation raced past the service's pre-checks is
translated to the same Conflict the service would have returned.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicates, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table, strings.Join(schema.UserAccount.Columns(), ", "),
	)

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if constraint, ok := dberr.UniqueViolation(err); ok {
			switch {
			case strings.Contains(constraint, schema.UserAccount.Email):
				return apperr.Conflict(msgEmailExists)
			case strings.Contains(constraint, schema.UserAccount.Username):
				return apperr.Conflict(msgUsernameExists)
			}
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists the mutable account state.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound if the account vanished, or update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.Status,
		schema.UserAccount.EmailVerified, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.db.Exec(context, query,
		user.ID,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.EmailVerified,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

// # Refresh Token Store

// PostgresRefreshTokenStore implements [RefreshTokenStore] on users.refreshtoken.
type PostgresRefreshTokenStore struct {
	db postgres.DB
}

// NewRefreshTokenStore creates a new PostgreSQL implementation of the RefreshTokenStore.
func NewRefreshTokenStore(db postgres.DB) *PostgresRefreshTokenStore {
	return &PostgresRefreshTokenStore{db: db}
}

/*
Create persists a new refresh token record.

Parameters:
  - context: context.Context
  - token: *RefreshToken (an empty ID is assigned a UUIDv7)

Returns:
  - string: The record ID
  - error: Persistence failures
*/
func (store *PostgresRefreshTokenStore) Create(context context.Context, token *RefreshToken) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserRefreshToken.Table, strings.Join(schema.UserRefreshToken.Columns(), ", "),
	)

	if token.ID == "" {
		token.ID = uuid.New()
	}

	_, err := store.db.Exec(context, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.UserAgent,
		token.IPAddress,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)

	if err != nil {
		return "", fmt.Errorf("postgres_refresh_token_store_create_failed: %w", err)
	}

	return token.ID, nil
}

/*
FindActiveByHash returns the usable record matching tokenHash.

Description: The active filter runs in SQL so that a revoked or expired row
is never returned, even transiently.

Parameters:
  - context: context.Context
  - tokenHash: []byte (SHA-256 of the opaque token)
  - now: time.Time

Returns:
  - *RefreshToken: nil when absent, revoked, or expired
  - error: Query failures
*/
func (store *PostgresRefreshTokenStore) FindActiveByHash(context context.Context, tokenHash []byte, now time.Time) (*RefreshToken, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s IS NULL AND %s > $2`,
		strings.Join(schema.UserRefreshToken.Columns(), ", "), schema.UserRefreshToken.Table,
		schema.UserRefreshToken.TokenHash, schema.UserRefreshToken.RevokedAt, schema.UserRefreshToken.ExpiresAt,
	)

	token := &RefreshToken{}
	err := store.db.QueryRow(context, query, tokenHash, now).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.UserAgent,
		&token.IPAddress,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_refresh_token_store_find_failed: %w", err)
	}

	return token, nil
}

// Revoke sets revokedat only if it is still NULL and reports whether this call did it.
func (store *PostgresRefreshTokenStore) Revoke(context context.Context, id string, now time.Time) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.RevokedAt,
		schema.UserRefreshToken.ID, schema.UserRefreshToken.RevokedAt)

	tag, err := store.db.Exec(context, query, id, now)
	if err != nil {
		return false, fmt.Errorf("postgres_refresh_token_store_revoke_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// RevokeAllForUser revokes every still-active record of userID.
func (store *PostgresRefreshTokenStore) RevokeAllForUser(context context.Context, userID string, now time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.RevokedAt,
		schema.UserRefreshToken.UserID, schema.UserRefreshToken.RevokedAt)

	tag, err := store.db.Exec(context, query, userID, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_refresh_token_store_revoke_all_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}
