// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/sec"
	"github.com/taibuivan/agora/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher derives and verifies password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer issues the credentials handed to clients.
type TokenIssuer interface {
	IssueAccessToken(userID, username string, roles []string) (string, error)
	IssueRefreshToken() (string, error)
	AccessTTL() time.Duration
}

// OutcomeRecorder receives the result of every authentication operation.
type OutcomeRecorder interface {
	ObserveAuth(operation string, err error)
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Users         UserRepository
	RefreshTokens RefreshTokenStore
	Verifications VerificationTokenRepository
	Hasher        PasswordHasher
	Tokens        TokenIssuer
	Notifier      Notifier

	// Recorder is optional.
	Recorder OutcomeRecorder

	// RefreshTTL is the lifetime of every issued refresh token.
	RefreshTTL time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation must be reviewed with the same care as a crypto change.
type Service struct {
	users         UserRepository
	refreshTokens RefreshTokenStore
	verifications VerificationTokenRepository
	hasher        PasswordHasher
	tokens        TokenIssuer
	notifier      Notifier
	recorder      OutcomeRecorder
	refreshTTL    time.Duration
	clock         func() time.Time

	// decoyHash is verified against when the email is unknown, so both
	// login failure paths spend the same bcrypt time.
	decoyHash string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(deps Dependencies) (*Service, error) {
	if deps.RefreshTTL <= 0 {
		return nil, fmt.Errorf("auth: refresh token ttl must be positive")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}

	decoyHash, err := deps.Hasher.Hash(uuid.New())
	if err != nil {
		return nil, fmt.Errorf("auth: failed to prepare decoy hash: %w", err)
	}

	return &Service{
		users:         deps.Users,
		refreshTokens: deps.RefreshTokens,
		verifications: deps.Verifications,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		notifier:      notifier,
		recorder:      deps.Recorder,
		refreshTTL:    deps.RefreshTTL,
		clock:         clock,
		decoyHash:     decoyHash,
	}, nil
}

// now returns the clock reading at PostgreSQL timestamp precision.
func (service *Service) now() time.Time {
	return service.clock().UTC().Truncate(time.Microsecond)
}

func (service *Service) observe(operation string, err error) {
	if service.recorder != nil {
		service.recorder.ObserveAuth(operation, err)
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

/*
Login validates user credentials and issues a token pair.

Description: Unknown email and wrong password fail with the same message.
Suspension is reported only once the password has been verified.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: Access and refresh tokens
  - error: InvalidArgument, Unauthorized, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (pair *TokenPair, err error) {
	defer func() { service.observe("login", err) }()

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperr.InvalidArgument("Email and password are required")
	}

	// Exact match on the stored email
	user, err := service.users.FindByEmail(context, input.Email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		service.hasher.Verify(input.Password, service.decoyHash)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if user.IsSuspended() {
		return nil, apperr.Unauthorized(msgAccountSuspended)
	}

	pair, err = service.issuePair(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))
	return pair, nil
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates uniqueness, hashes the password, and persists a new account.

Description: New accounts are active, unverified members. A verification
token is stored and handed to the [Notifier] without waiting for delivery.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - string: The new user ID
  - error: InvalidArgument, Conflict, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (userID string, err error) {
	defer func() { service.observe("register", err) }()

	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return "", apperr.InvalidArgument("Username, email and password are required")
	}

	// Verify email uniqueness
	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return "", apperr.Conflict(msgEmailExists)
	} else if !apperr.IsNotFound(err) {
		return "", fmt.Errorf("auth_service_register_email_check_failed: %w", err)
	}

	// Verify username uniqueness
	if _, err := service.users.FindByUsername(context, input.Username); err == nil {
		return "", apperr.Conflict(msgUsernameExists)
	} else if !apperr.IsNotFound(err) {
		return "", fmt.Errorf("auth_service_register_username_check_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		if apperr.As(err) != nil {
			return "", err
		}
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	user := &User{
		ID:            uuid.New(),
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		Role:          sec.RoleMember,
		Status:        StatusActive,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// A concurrent registration can still win the race; the repository
	// reports it with the same Conflict messages.
	if err := service.users.Create(context, user); err != nil {
		if apperr.As(err) != nil {
			return "", err
		}
		return "", fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.dispatchVerification(context, user)

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user.ID, nil
}

// # Session Management

// RefreshInput carries the presented refresh token and the caller's provenance.
type RefreshInput struct {
	RefreshToken string
	UserAgent    string
	IPAddress    string
}

/*
Refresh implements single-use refresh token rotation.

Description: The presented token is revoked with a conditional update before
a new pair is issued. When two callers race with the same token only the one
whose revoke lands gets a new pair; the other sees Unauthorized.

Parameters:
  - context: context.Context
  - input: RefreshInput

Returns:
  - *TokenPair: New access and refresh tokens
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, input RefreshInput) (pair *TokenPair, err error) {
	defer func() { service.observe("refresh", err) }()

	if strings.TrimSpace(input.RefreshToken) == "" {
		return nil, apperr.Unauthorized(msgInvalidRefreshToken)
	}

	now := service.now()

	// 1. Resolve the active record by digest
	record, err := service.refreshTokens.FindActiveByHash(context, sec.HashToken(input.RefreshToken), now)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}
	if record == nil {
		return nil, apperr.Unauthorized(msgInvalidRefreshToken)
	}

	// 2. The owner must still exist and be allowed in
	user, err := service.users.FindByID(context, record.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(msgUserUnavailable)
		}
		return nil, fmt.Errorf("auth_service_refresh_user_lookup_failed: %w", err)
	}
	if user.IsSuspended() {
		return nil, apperr.Unauthorized(msgUserUnavailable)
	}

	// 3. Consume the presented token
	revoked, err := service.refreshTokens.Revoke(context, record.ID, now)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}
	if !revoked {
		ctxutil.GetLogger(context).WarnContext(context, "refresh_token_reuse_rejected",
			slog.String("user_id", user.ID),
			slog.String("token_id", record.ID),
			slog.String("ip", input.IPAddress),
		)
		return nil, apperr.Unauthorized(msgInvalidRefreshToken)
	}

	// 4. Issue the replacement, keeping the original provenance
	return service.issuePair(context, user, record.UserAgent, record.IPAddress)
}

/*
Logout revokes a single refresh token.

Description: Unknown, expired, or already revoked tokens are a no-op so that
logout is idempotent from the client's point of view.
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	now := service.now()
	record, err := service.refreshTokens.FindActiveByHash(context, sec.HashToken(refreshToken), now)
	if err != nil {
		return fmt.Errorf("auth_service_logout_lookup_failed: %w", err)
	}
	if record == nil {
		return nil
	}

	if _, err := service.refreshTokens.Revoke(context, record.ID, now); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token of userID.
func (service *Service) LogoutAll(context context.Context, userID string) error {
	count, err := service.refreshTokens.RevokeAllForUser(context, userID, service.now())
	if err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_sessions_revoked",
		slog.String("user_id", userID),
		slog.Int64("count", count),
	)
	return nil
}

// issuePair signs an access token, mints a refresh token, and persists its digest.
func (service *Service) issuePair(context context.Context, user *User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := service.tokens.IssueAccessToken(user.ID, user.Username, []string{string(user.Role)})
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	record := &RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(service.refreshTTL),
		CreatedAt: now,
	}

	if _, err := service.refreshTokens.Create(context, record); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_persist_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        TokenTypeBearer,
		ExpiresInSeconds: int64(service.tokens.AccessTTL() / time.Second),
	}, nil
}

// # Account Lifecycle

/*
VerifyEmail confirms a user's email address using a verification token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: NotFound for unknown or expired tokens, or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperr.InvalidArgument("Verification token is required")
	}

	userID, err := service.verifications.Get(context, token)
	if err != nil {
		return err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		user.UpdatedAt = service.now()

		if err := service.users.Update(context, user); err != nil {
			return fmt.Errorf("auth_service_verify_email_failed: %w", err)
		}
	}

	// Tokens are single-use
	if err := service.verifications.Delete(context, token); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "verify_token_cleanup_failed", slog.String("error", err.Error()))
	}

	return nil
}

// Me returns the account of the authenticated caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

/*
SetStatus suspends or reinstates an account.

Description: Suspension also revokes every refresh token, so the user is
signed out everywhere once their current access token expires.

Parameters:
  - context: context.Context
  - userID: string
  - status: UserStatus

Returns:
  - error: InvalidArgument, NotFound, or storage errors
*/
func (service *Service) SetStatus(context context.Context, userID string, status UserStatus) error {
	if !status.IsValid() {
		return apperr.InvalidArgument("Unknown account status")
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	user.Status = status
	user.UpdatedAt = service.now()

	if err := service.users.Update(context, user); err != nil {
		return fmt.Errorf("auth_service_set_status_failed: %w", err)
	}

	if status == StatusSuspended {
		if err := service.LogoutAll(context, userID); err != nil {
			return err
		}
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_status_changed",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
	)
	return nil
}
