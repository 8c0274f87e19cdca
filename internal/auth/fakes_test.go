// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/agora/internal/auth"
	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/sec"
)

// # Clock

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)}
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *testClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// # Users

// memoryUsers is a map-backed UserRepository enforcing unique email and username.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]auth.User)}
}

func (repo *memoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return repo.find(func(u auth.User) bool { return u.ID == id })
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repo.find(func(u auth.User) bool { return u.Email == email })
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repo.find(func(u auth.User) bool { return u.Username == username })
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email already exists")
		}
		if existing.Username == user.Username {
			return apperr.Conflict("Username already exists")
		}
	}
	repo.users[user.ID] = *user
	return nil
}

func (repo *memoryUsers) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("Account")
	}
	repo.users[user.ID] = *user
	return nil
}

// # Verification tokens

type memoryVerifications struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (repo *memoryVerifications) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.tokens[token] = userID
	return nil
}

func (repo *memoryVerifications) Get(_ context.Context, token string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	userID, ok := repo.tokens[token]
	if !ok {
		return "", apperr.NotFound("Verification token")
	}
	return userID, nil
}

func (repo *memoryVerifications) Delete(_ context.Context, token string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.tokens, token)
	return nil
}

// # Notifier

type capturedVerification struct {
	userID string
	token  string
}

type channelNotifier struct {
	sent chan capturedVerification
}

func (notifier channelNotifier) SendVerification(_ context.Context, user *auth.User, token string) error {
	notifier.sent <- capturedVerification{userID: user.ID, token: token}
	return nil
}

// # Recorder

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (recorder *countingRecorder) ObserveAuth(operation string, err error) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	key := operation + ":ok"
	if err != nil {
		key = operation + ":fail"
	}
	recorder.outcomes[key]++
}

// # Fixture

const refreshTTL = 7 * 24 * time.Hour

type fixture struct {
	service  *auth.Service
	users    *memoryUsers
	tokens   *auth.MemoryRefreshTokenStore
	verifier *sec.TokenService
	clock    *testClock
	notifier channelNotifier
	recorder *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newTestClock()
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		Secret:    "0123456789abcdef0123456789abcdef",
		Issuer:    "agora.test",
		Audience:  "agora-web",
		AccessTTL: time.Hour,
		Clock:     clock.Now,
	})
	require.NoError(t, err)

	f := &fixture{
		users:    newMemoryUsers(),
		tokens:   auth.NewMemoryRefreshTokenStore(),
		verifier: tokenService,
		clock:    clock,
		notifier: channelNotifier{sent: make(chan capturedVerification, 16)},
		recorder: &countingRecorder{outcomes: make(map[string]int)},
	}

	f.service, err = auth.NewService(auth.Dependencies{
		Users:         f.users,
		RefreshTokens: f.tokens,
		Verifications: &memoryVerifications{tokens: make(map[string]string)},
		Hasher:        sec.NewPasswordHasher(bcrypt.MinCost),
		Tokens:        tokenService,
		Notifier:      f.notifier,
		Recorder:      f.recorder,
		RefreshTTL:    refreshTTL,
		Clock:         clock.Now,
	})
	require.NoError(t, err)

	return f
}

// register creates an account and returns its ID.
func (f *fixture) register(t *testing.T, username, email, password string) string {
	t.Helper()

	userID, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return userID
}

func (f *fixture) login(t *testing.T, email, password string) *auth.TokenPair {
	t.Helper()

	pair, err := f.service.Login(context.Background(), auth.LoginInput{Email: email, Password: password})
	require.NoError(t, err)
	return pair
}
