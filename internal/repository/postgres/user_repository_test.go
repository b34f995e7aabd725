package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const (
	userExistsQuery = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+"user"\s+WHERE\s+user_id\s*=\s*\$1\)$`
	userInsertQuery = `(?s)^INSERT\s+INTO\s+"user"\s*\(user_id\)\s*VALUES\s*\(\$1\)\s*ON\s+CONFLICT\s*\(user_id\)\s*DO\s+NOTHING$`
)

func TestUserRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(userExistsQuery).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(userExistsQuery).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Exists_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(userExistsQuery).
		WithArgs(int64(7)).
		WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), 7)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestUserRepository_Create_IsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(userInsertQuery).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 第二次插入命中 ON CONFLICT，影响行数为 0，但不是错误
	mock.ExpectExec(userInsertQuery).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Create(context.Background(), 7))
	require.NoError(t, repo.Create(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(userInsertQuery).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), 7)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*connection reset`, err.Error())
}
