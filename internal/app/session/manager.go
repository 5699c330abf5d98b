// Package session implements the authentication session manager: it
// verifies credentials against the credential store, owns the opaque
// token -> username binding, and reconstitutes an identity from a token
// on each request.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"microblog/internal/common"
	"microblog/internal/common/security"
	"microblog/internal/domain/model"
	"microblog/internal/domain/repository"
)

// TokenStore is the persistence port for session bindings. Get returns
// common.ErrNotFound for an unknown token, anything else is a storage
// failure.
type TokenStore interface {
	Put(ctx context.Context, token, username string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Del(ctx context.Context, token string) error
}

// Manager is the only component that mutates the token binding.
type Manager struct {
	users  repository.UserRepository
	tokens TokenStore
	ttl    time.Duration
}

func NewManager(users repository.UserRepository, tokens TokenStore, ttl time.Duration) *Manager {
	return &Manager{users: users, tokens: tokens, ttl: ttl}
}

// Authenticate verifies the submitted credentials and, on success,
// establishes a new session and returns the identity with its token.
// "No such user" and "wrong password" both come back as
// common.ErrUnauthorized so the response cannot be used for username
// enumeration; the distinction is logged server-side.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (model.Identity, string, error) {
	user, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Printf("authenticate: user %q not found", username)
			return model.Anonymous, "", common.ErrUnauthorized
		}
		return model.Anonymous, "", common.Errorf("authenticate: lookup failed: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		log.Printf("authenticate: wrong password for user %q", username)
		return model.Anonymous, "", common.ErrUnauthorized
	}

	token := uuid.NewString()
	if err := m.tokens.Put(ctx, token, user.Username, m.ttl); err != nil {
		return model.Anonymous, "", common.Errorf("authenticate: establish session: %w", err)
	}
	return model.Identity{Username: user.Username}, token, nil
}

// Resolve maps a session token back to an identity. Every failure mode
// degrades to Anonymous rather than aborting the request pipeline; a
// token store error is logged so "store down" stays distinguishable from
// "no session" operationally. The binding itself is the source of truth:
// the identity carries just the username, with no user-record lookup.
func (m *Manager) Resolve(ctx context.Context, token string) model.Identity {
	if token == "" {
		return model.Anonymous
	}
	username, err := m.tokens.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("resolve session: token store error: %v", err)
		}
		return model.Anonymous
	}
	return model.Identity{Username: username}
}

// Terminate clears the binding for a token. Idempotent; never fails
// observably to the caller.
func (m *Manager) Terminate(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := m.tokens.Del(ctx, token); err != nil {
		log.Printf("terminate session: %v", err)
	}
}
