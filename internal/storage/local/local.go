package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/DanilaOak/uploader/internal/storage"
)

// Writer 将文件写入本地文件系统（UPLOAD_FOLDER）。
type Writer struct {
	BaseDir string
	BaseURL string
}

// NewWriter 以绝对路径形式保存根目录，返回的 Location.Path 因此也是绝对路径。
func NewWriter(baseDir, baseURL string) (*Writer, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	return &Writer{BaseDir: abs, BaseURL: baseURL}, nil
}

// Write 先写入 <target>.tmp，fsync 后重命名；任何失败都会删除临时文件，不留残片。
func (w *Writer) Write(ctx context.Context, key string, r io.Reader) (storage.Location, error) {
	if w == nil {
		return storage.Location{}, fmt.Errorf("local writer uninitialized")
	}

	select {
	case <-ctx.Done():
		return storage.Location{}, ctx.Err()
	default:
	}

	targetPath, err := w.resolve(key)
	if err != nil {
		return storage.Location{}, err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return storage.Location{}, fmt.Errorf("ensure dir: %w", err)
	}

	tempPath := targetPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return storage.Location{}, fmt.Errorf("create temp file: %w", err)
	}

	fail := func(err error) (storage.Location, error) {
		file.Close()
		os.Remove(tempPath)
		return storage.Location{}, err
	}

	size, err := io.Copy(file, &contextReader{ctx: ctx, r: r})
	if err != nil {
		return fail(fmt.Errorf("write file: %w", err))
	}

	if err := file.Sync(); err != nil {
		return fail(fmt.Errorf("sync file: %w", err))
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return storage.Location{}, fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		os.Remove(tempPath)
		return storage.Location{}, fmt.Errorf("rename temp file: %w", err)
	}

	loc := storage.Location{Path: targetPath, Size: size}
	if w.BaseURL != "" {
		rel, _ := filepath.Rel(w.BaseDir, targetPath)
		if u, err := url.JoinPath(w.BaseURL, filepath.ToSlash(rel)); err == nil {
			loc.URL = u
		}
	}

	return loc, nil
}

// Read 打开并返回指定路径对应的文件内容。
func (w *Writer) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if w == nil {
		return nil, fmt.Errorf("local writer uninitialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	targetPath, err := w.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return file, nil
}

// Remove 删除文件，文件本就不存在时视为成功。
func (w *Writer) Remove(ctx context.Context, path string) error {
	if w == nil {
		return fmt.Errorf("local writer uninitialized")
	}

	targetPath, err := w.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(targetPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve 接受相对 key 或 Write 返回的绝对路径，并拒绝根目录之外的位置。
func (w *Writer) resolve(p string) (string, error) {
	var target string
	if filepath.IsAbs(p) {
		target = filepath.Clean(p)
	} else {
		target = filepath.Join(w.BaseDir, filepath.Clean(p))
	}

	rel, err := filepath.Rel(w.BaseDir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside storage dir", p)
	}
	return target, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
