package service

import (
	"context"
	"errors"
	"fmt"

	"microblog/internal/common"
	"microblog/internal/common/security"
	"microblog/internal/domain/model"
	"microblog/internal/domain/repository"
)

// SeedDemoData inserts the two demo users and sample posts the original
// deployment shipped with. Intended for development only, behind the
// SEED_DEMO_DATA flag; existing users are left untouched.
func SeedDemoData(ctx context.Context, users repository.UserRepository, posts repository.PostRepository, bcryptCost int) error {
	demoUsers := map[string]string{
		"Peter": "peterspassword",
		"Ann":   "annspassword",
	}
	for username, password := range demoUsers {
		_, err := users.FindByUsername(ctx, username)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("seed: lookup %s: %w", username, err)
		}
		hash, err := security.HashPassword(password, bcryptCost)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		if err := users.Create(ctx, &model.User{Username: username, HashedPassword: hash}); err != nil {
			return fmt.Errorf("seed: create %s: %w", username, err)
		}
	}

	existing, err := posts.ListByAuthor(ctx, "Ann")
	if err != nil {
		return fmt.Errorf("seed: list posts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	samples := []model.Post{
		{Author: "Ann", Topic: "Sample entry 1", Message: "First sample post"},
		{Author: "Ann", Topic: "Sample entry 2", Message: "Second sample post"},
	}
	for i := range samples {
		if err := posts.Create(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed: create post: %w", err)
		}
	}
	return nil
}
