package repository

import "errors"

// ErrNotFound 表示目标记录不存在。
var ErrNotFound = errors.New("repository: record not found")

// ErrConflict 表示违反唯一约束（主键或 path 唯一索引）。
var ErrConflict = errors.New("repository: unique constraint violated")
