package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/common"
	"microblog/internal/domain/model"
)

func newMockPostRepo(t *testing.T) (*pgPostRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := &pgPostRepository{
		db:  db,
		now: func() time.Time { return time.Date(2024, 6, 16, 16, 16, 0, 0, time.UTC) },
	}
	return repo, mock, func() { db.Close() }
}

func TestPostCreateAssignsIDAndTimestamp(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).
		WithArgs(sqlmock.AnyArg(), "Ann", "T", "M", "2024-06-16 16:16").
		WillReturnResult(sqlmock.NewResult(0, 1))

	post := &model.Post{Author: "Ann", Topic: "T", Message: "M"}
	require.NoError(t, repo.Create(context.Background(), post))
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "2024-06-16 16:16", post.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostFindByIDNotFound(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, author, topic, message, created_at FROM posts WHERE id = $1`)).
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostFindByIDStorageFailure(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, author, topic, message, created_at FROM posts WHERE id = $1`)).
		WithArgs("some-id").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.FindByID(context.Background(), "some-id")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound, "storage failure must stay distinct from not-found")
}

func TestPostUpdateUnknownIDReportsZeroRows(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET author = $1, topic = $2, message = $3 WHERE id = $4`)).
		WithArgs("Ann", "T", "M", "no-such-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := repo.Update(context.Background(), "no-such-id", "Ann", "T", "M")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPostDeleteReportsRemovedCount(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs("some-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := repo.Delete(context.Background(), "some-id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostListAll(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "author", "topic", "message", "created_at"}).
		AddRow("1", "Ann", "T", "M", "2024-06-16 16:16").
		AddRow("2", "Peter", "T2", "M2", "2024-06-16 16:17")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, author, topic, message, created_at FROM posts`)).
		WillReturnRows(rows)

	posts, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Ann", posts[0].Author)
	assert.Equal(t, "Peter", posts[1].Author)
}

func TestPostListByAuthor(t *testing.T) {
	repo, mock, done := newMockPostRepo(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "author", "topic", "message", "created_at"}).
		AddRow("1", "Ann", "T", "M", "2024-06-16 16:16")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, author, topic, message, created_at FROM posts WHERE author = $1`)).
		WithArgs("Ann").
		WillReturnRows(rows)

	posts, err := repo.ListByAuthor(context.Background(), "Ann")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Ann", posts[0].Author)
}
