package repository

import (
	"context"
	"time"
)

// User 代表上传者。user_id 由客户端提供，首次上传时惰性创建。
type User struct {
	ID int64
}

// FileRecord 代表数据库中的文件元数据。
type FileRecord struct {
	ID           int64
	UserID       int64
	Name         string
	Path         string
	Size         int64
	CreationDate time.Time
}

// UserRepository 管理 user 表。
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	// Create 是幂等的：用户已存在时不报错。
	Create(ctx context.Context, id int64) error
}

// FileRepository 统一文件元数据持久层接口。
type FileRepository interface {
	Create(ctx context.Context, record *FileRecord) (*FileRecord, error)
	GetByID(ctx context.Context, id int64) (*FileRecord, error)
	Exists(ctx context.Context, id, userID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]FileRecord, error)
}
