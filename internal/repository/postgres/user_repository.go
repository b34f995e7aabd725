package postgres

import (
	"context"
)

// NewUserRepository 返回基于 DBTX 的用户仓储。
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// UserRepository 实现 repository.UserRepository。
type UserRepository struct {
	db DBTX
}

// Exists 判断用户是否存在。
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM "user" WHERE user_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, wrapError(err)
	}
	return exists, nil
}

// Create 以 insert-if-absent 方式登记用户，并发首传同一用户时只会有一行生效。
func (r *UserRepository) Create(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO "user" (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id,
	)
	if err != nil {
		return wrapError(err)
	}
	return nil
}
