package service

import (
	"context"
	"errors"
	"fmt"

	"microblog/internal/app/session"
	"microblog/internal/common"
	"microblog/internal/common/security"
	"microblog/internal/domain/model"
	"microblog/internal/domain/repository"
)

type AuthService struct {
	userRepo   repository.UserRepository
	sessions   *session.Manager
	bcryptCost int
}

func NewAuthService(userRepo repository.UserRepository, sessions *session.Manager, bcryptCost int) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions, bcryptCost: bcryptCost}
}

// Signup registers a new user. Uniqueness is enforced here by a
// preceding lookup (the credential store itself does not check); a
// username that already exists yields common.ErrConflict with no record
// created.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrValidation
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return fmt.Errorf("user %q already exists: %w", username, common.ErrConflict)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("signup: lookup failed: %w", err)
	}

	hashedPassword, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login verifies credentials and establishes a session, returning the
// identity and its opaque token.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.Identity, string, error) {
	if username == "" || password == "" {
		return model.Anonymous, "", common.ErrUnauthorized
	}
	return s.sessions.Authenticate(ctx, username, password)
}

// Logout terminates the session bound to token. Always succeeds from the
// client's perspective.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Terminate(ctx, token)
}
