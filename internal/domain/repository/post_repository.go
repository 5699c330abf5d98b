package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"microblog/internal/common"
	"microblog/internal/domain/model"
)

// PostRepository is the post store. Update and Delete report the number
// of affected rows so callers can treat 0 as not-found; storage failures
// are wrapped errors, always distinct from common.ErrNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListAll(ctx context.Context) ([]model.Post, error)
	ListByAuthor(ctx context.Context, author string) ([]model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, id, author, topic, message string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type pgPostRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db, now: time.Now}
}

// Create assigns the id and creation timestamp; both are filled in on the
// passed post before the insert.
func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	post.ID = uuid.NewString()
	post.CreatedAt = r.now().Format(model.PostTimeLayout)

	query := `INSERT INTO posts (id, author, topic, message, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Author, post.Topic, post.Message, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	query := `SELECT id, author, topic, message, created_at FROM posts`
	return r.queryPosts(ctx, query)
}

func (r *pgPostRepository) ListByAuthor(ctx context.Context, author string) ([]model.Post, error) {
	query := `SELECT id, author, topic, message, created_at FROM posts WHERE author = $1`
	return r.queryPosts(ctx, query, author)
}

func (r *pgPostRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.queryPosts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Author, &p.Topic, &p.Message, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPostRepository.queryPosts scan: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPostRepository.queryPosts rows: %w", err)
	}
	return posts, nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	query := `SELECT id, author, topic, message, created_at FROM posts WHERE id = $1`
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Author, &post.Topic, &post.Message, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return post, nil
}

// Update replaces author, topic and message together. created_at is
// immutable.
func (r *pgPostRepository) Update(ctx context.Context, id, author, topic, message string) (int64, error) {
	query := `UPDATE posts SET author = $1, topic = $2, message = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, author, topic, message, id)
	if err != nil {
		return 0, fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgPostRepository.Update rows affected: %w", err)
	}
	return count, nil
}

func (r *pgPostRepository) Delete(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgPostRepository.Delete rows affected: %w", err)
	}
	return count, nil
}
