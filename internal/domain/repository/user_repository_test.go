package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/common"
	"microblog/internal/domain/model"
)

func newMockUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPgUserRepository(db), mock, func() { db.Close() }
}

func TestUserCreate(t *testing.T) {
	repo, mock, done := newMockUserRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("Ann", "$2a$10$verifier").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &model.User{Username: "Ann", HashedPassword: "$2a$10$verifier"})
	assert.NoError(t, err)
}

func TestUserCreateUniqueViolation(t *testing.T) {
	repo, mock, done := newMockUserRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("Ann", "$2a$10$verifier").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{Username: "Ann", HashedPassword: "$2a$10$verifier"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUserFindByUsername(t *testing.T) {
	repo, mock, done := newMockUserRepo(t)
	defer done()

	created := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"username", "hashed_password", "created_at"}).
		AddRow("Ann", "$2a$10$verifier", created)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, hashed_password, created_at`)).
		WithArgs("Ann").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Username)
	assert.Equal(t, "$2a$10$verifier", user.HashedPassword)
}

func TestUserFindByUsernameNotFound(t *testing.T) {
	repo, mock, done := newMockUserRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, hashed_password, created_at`)).
		WithArgs("Nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "Nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
