package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/common"
	"microblog/internal/common/security"
	"microblog/internal/domain/model"
)

// --- fakes ---

type fakeUserRepo struct {
	users   map[string]*model.User
	findErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	user, ok := f.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	getErr error
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]string{}}
}

func (s *memTokenStore) Put(ctx context.Context, token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
	return nil
}

func (s *memTokenStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	username, ok := s.tokens[token]
	if !ok {
		return "", common.ErrNotFound
	}
	return username, nil
}

func (s *memTokenStore) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *fakeUserRepo, *memTokenStore) {
	t.Helper()
	hash, err := security.HashPassword("pw1", 4)
	require.NoError(t, err)
	users := &fakeUserRepo{users: map[string]*model.User{
		"Ann": {Username: "Ann", HashedPassword: hash},
	}}
	tokens := newMemTokenStore()
	return NewManager(users, tokens, time.Hour), users, tokens
}

// --- tests ---

func TestAuthenticateSuccess(t *testing.T) {
	m, _, _ := newTestManager(t)

	identity, token, err := m.Authenticate(context.Background(), "Ann", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", identity.Username)
	assert.NotEmpty(t, token)

	resolved := m.Resolve(context.Background(), token)
	assert.Equal(t, identity, resolved)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, _, err := m.Authenticate(context.Background(), "Ann", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthenticateUnknownUserIndistinguishable(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, _, errNoUser := m.Authenticate(context.Background(), "Nobody", "pw1")
	_, _, errBadPw := m.Authenticate(context.Background(), "Ann", "wrong")

	// No username enumeration: both failures look identical to the caller.
	assert.ErrorIs(t, errNoUser, common.ErrUnauthorized)
	assert.Equal(t, errNoUser, errBadPw)
}

func TestAuthenticateStorageFailure(t *testing.T) {
	m, users, _ := newTestManager(t)
	users.findErr = errors.New("connection refused")

	_, _, err := m.Authenticate(context.Background(), "Ann", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestResolveUnknownToken(t *testing.T) {
	m, _, _ := newTestManager(t)

	identity := m.Resolve(context.Background(), "no-such-token")
	assert.True(t, identity.IsAnonymous())
}

func TestResolveEmptyToken(t *testing.T) {
	m, _, _ := newTestManager(t)

	assert.True(t, m.Resolve(context.Background(), "").IsAnonymous())
}

func TestResolveStoreErrorDegradesToAnonymous(t *testing.T) {
	m, _, tokens := newTestManager(t)
	tokens.getErr = errors.New("redis down")

	identity := m.Resolve(context.Background(), "some-token")
	assert.True(t, identity.IsAnonymous())
}

func TestTerminateIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, token, err := m.Authenticate(context.Background(), "Ann", "pw1")
	require.NoError(t, err)

	m.Terminate(context.Background(), token)
	assert.True(t, m.Resolve(context.Background(), token).IsAnonymous())

	// A second logout must be a no-op, not an error.
	m.Terminate(context.Background(), token)
	assert.True(t, m.Resolve(context.Background(), token).IsAnonymous())
}

func TestResolveSurvivesVanishedUser(t *testing.T) {
	m, users, _ := newTestManager(t)

	_, token, err := m.Authenticate(context.Background(), "Ann", "pw1")
	require.NoError(t, err)

	// User record disappears while the session is live; the binding
	// still resolves to an identity carrying the username.
	delete(users.users, "Ann")
	identity := m.Resolve(context.Background(), token)
	assert.Equal(t, "Ann", identity.Username)
}
