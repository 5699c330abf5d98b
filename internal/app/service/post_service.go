package service

import (
	"context"
	"errors"
	"fmt"

	"microblog/internal/common"
	"microblog/internal/domain/authz"
	"microblog/internal/domain/model"
	"microblog/internal/domain/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListAll returns every post annotated with the viewer's IsAuthor flag.
func (s *PostService) ListAll(ctx context.Context, viewer model.Identity) ([]model.PostView, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return annotate(posts, viewer), nil
}

// ListByAuthor returns the posts of one author, annotated for the viewer.
func (s *PostService) ListByAuthor(ctx context.Context, author string, viewer model.Identity) ([]model.PostView, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return annotate(posts, viewer), nil
}

func annotate(posts []model.Post, viewer model.Identity) []model.PostView {
	views := make([]model.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, model.PostView{
			Post:     p,
			IsAuthor: authz.IsAuthor(viewer, p),
		})
	}
	return views
}

// Create persists a new post. The author field of the submission is the
// acting identity here: creation deliberately trusts the submitted
// author and does not consult the session (preserved behavior, flagged
// for a product decision before hardening). All three fields are
// required; the store does not re-validate.
func (s *PostService) Create(ctx context.Context, author, topic, message string) (*model.Post, error) {
	if author == "" {
		return nil, fmt.Errorf("a post needs an author: %w", common.ErrValidation)
	}
	if topic == "" || message == "" {
		return nil, fmt.Errorf("topic and message are required: %w", common.ErrValidation)
	}

	post := &model.Post{Author: author, Topic: topic, Message: message}
	if authz.Authorize(model.Identity{Username: author}, post, authz.ActionCreate) != authz.Permit {
		return nil, common.ErrForbidden
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// GetForEdit loads a post for the edit form. Both "no such post" and
// "not the owner" surface as common.ErrForbidden so a prober cannot
// tell them apart.
func (s *PostService) GetForEdit(ctx context.Context, id string, actor model.Identity) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrForbidden
		}
		return nil, fmt.Errorf("load post %s: %w", id, err)
	}
	if authz.Authorize(actor, post, authz.ActionEdit) != authz.Permit {
		return nil, common.ErrForbidden
	}
	return post, nil
}

// Edit replaces author, topic and message of an owned post. The gate is
// checked against the post's pre-edit author; the author field itself
// may be re-specified by the edit.
func (s *PostService) Edit(ctx context.Context, id, author, topic, message string, actor model.Identity) error {
	if author == "" || topic == "" || message == "" {
		return fmt.Errorf("all fields are required: %w", common.ErrValidation)
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden
		}
		return fmt.Errorf("load post %s: %w", id, err)
	}
	if authz.Authorize(actor, post, authz.ActionEdit) != authz.Permit {
		return common.ErrForbidden
	}

	count, err := s.postRepo.Update(ctx, id, author, topic, message)
	if err != nil {
		return fmt.Errorf("update post %s: %w", id, err)
	}
	if count == 0 {
		// Deleted between the ownership check and the write.
		return common.ErrNotFound
	}
	return nil
}

// Delete removes an owned post.
func (s *PostService) Delete(ctx context.Context, id string, actor model.Identity) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden
		}
		return fmt.Errorf("load post %s: %w", id, err)
	}
	if authz.Authorize(actor, post, authz.ActionDelete) != authz.Permit {
		return common.ErrForbidden
	}

	if _, err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
