package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotFound 表示存储中不存在目标对象。
var ErrNotFound = errors.New("storage: object not found")

// Writer 定义对象存储写接口，支持长度未知的流式写入。
type Writer interface {
	Write(ctx context.Context, key string, r io.Reader) (Location, error)
}

// Reader 定义对象存储读接口，path 为 Write 返回的 Location.Path。
type Reader interface {
	Read(ctx context.Context, path string) (io.ReadCloser, error)
}

// Remover 删除已写入的对象。
type Remover interface {
	Remove(ctx context.Context, path string) error
}

// Storage 组合了读写删能力的完整存储接口。
type Storage interface {
	Writer
	Reader
	Remover
}

// Location 描述已经写入对象的可访问信息。
type Location struct {
	Path string
	URL  string
	Size int64
}

// Extension 返回文件名最后一个 "." 之后的扩展名（不含点），没有扩展名时返回空串。
// 只看最后一级路径，不做白名单校验。
func Extension(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filename), ".")
}

// ObjectKey 以随机 token 命名对象，客户端文件名只贡献扩展名。
func ObjectKey(token, filename string) string {
	ext := Extension(filename)
	if ext == "" {
		return token
	}
	return token + "." + ext
}
