package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/DanilaOak/uploader/internal/repository"
	"github.com/DanilaOak/uploader/internal/storage"
)

// FileService 封装文件查询与下载流程。
type FileService struct {
	users repository.UserRepository
	files repository.FileRepository
	store storage.Reader
}

func NewFileService(users repository.UserRepository, files repository.FileRepository, store storage.Reader) *FileService {
	return &FileService{users: users, files: files, store: store}
}

// ListFiles 按主键顺序列出用户的文件。
func (s *FileService) ListFiles(ctx context.Context, userID int64) ([]repository.FileRecord, error) {
	if s == nil || s.users == nil || s.files == nil {
		return nil, errors.New("file service not initialized")
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.files.ListByUser(ctx, userID)
}

// GetFile 返回属于该用户的文件元数据。
func (s *FileService) GetFile(ctx context.Context, userID, fileID int64) (*repository.FileRecord, error) {
	if s == nil || s.users == nil || s.files == nil {
		return nil, errors.New("file service not initialized")
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	owned, err := s.files.Exists(ctx, fileID, userID)
	if err != nil {
		return nil, fmt.Errorf("check file: %w", err)
	}
	if !owned {
		return nil, fmt.Errorf("%w: id=%d", ErrFileNotFound, fileID)
	}

	record, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrFileNotFound, fileID)
		}
		return nil, err
	}
	return record, nil
}

// OpenFile 返回文件元数据和内容流，调用方负责关闭。
// 元数据存在但字节缺失属于存储层故障，不映射为 ErrFileNotFound。
func (s *FileService) OpenFile(ctx context.Context, userID, fileID int64) (*repository.FileRecord, io.ReadCloser, error) {
	record, err := s.GetFile(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if s.store == nil {
		return nil, nil, errors.New("file service has no storage")
	}

	content, err := s.store.Read(ctx, record.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", ErrStorage, record.Path, err)
	}
	return record, content, nil
}

func (s *FileService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
	}
	return nil
}
