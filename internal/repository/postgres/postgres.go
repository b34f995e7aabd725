// Package postgres 提供 repository 接口的 PostgreSQL 实现。
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DanilaOak/uploader/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation 是 PostgreSQL 的 unique_violation 错误码。
const uniqueViolation = "23505"

// DBTX 抽象 *sql.DB 与 *sql.Tx 的公共查询方法。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func wrapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}
