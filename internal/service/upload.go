package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/DanilaOak/uploader/internal/repository"
	"github.com/DanilaOak/uploader/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Part 是 multipart 请求中的一个分片。
type Part interface {
	io.Reader
	FileName() string
}

// PartSource 按到达顺序产出分片。io.EOF 表示流结束；
// 返回 (nil, nil) 表示缺失的分片，按流结束处理，其后的分片不再读取。
type PartSource interface {
	NextPart() (Part, error)
}

// PartStatus 描述单个分片的处理结果。
type PartStatus string

const (
	PartStored  PartStatus = "stored"
	PartSkipped PartStatus = "skipped"
	PartFailed  PartStatus = "failed"
)

// PartOutcome 记录一个分片的处理结果，按到达顺序排列。
type PartOutcome struct {
	Index    int
	FileName string
	Status   PartStatus
	Record   *repository.FileRecord
	Reason   string
}

// UploadResult 是一次上传请求的逐分片结果。已成功的分片不会因后续失败而回滚。
type UploadResult struct {
	UserID   int64
	Outcomes []PartOutcome
}

// Records 按到达顺序返回本次请求创建的文件记录。
func (r *UploadResult) Records() []repository.FileRecord {
	records := make([]repository.FileRecord, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Status == PartStored && o.Record != nil {
			records = append(records, *o.Record)
		}
	}
	return records
}

// Uploader 协调存储写入与元数据登记，本身不持有持久状态。
type Uploader struct {
	users    repository.UserRepository
	files    repository.FileRepository
	store    storage.Storage
	logger   *zap.Logger
	newToken func() string
}

func NewUploader(users repository.UserRepository, files repository.FileRepository, store storage.Storage, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		users:    users,
		files:    files,
		store:    store,
		logger:   logger,
		newToken: uuid.NewString,
	}
}

// EnsureUser 在用户不存在时创建。并发首传可能同时走到 Create，
// 仓储层的 insert-if-absent 保证只落一行，ErrConflict 也视为已存在。
func (u *Uploader) EnsureUser(ctx context.Context, userID int64) error {
	exists, err := u.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return nil
	}

	if err := u.users.Create(ctx, userID); err != nil && !errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Upload 逐个处理分片：写存储、登记元数据。分片严格串行处理。
// 出错时返回已处理分片的结果和错误，之前成功的分片保持提交状态。
func (u *Uploader) Upload(ctx context.Context, userID int64, parts PartSource) (*UploadResult, error) {
	if u == nil || u.users == nil || u.files == nil || u.store == nil {
		return nil, errors.New("uploader not initialized")
	}

	result := &UploadResult{UserID: userID}

	if err := u.EnsureUser(ctx, userID); err != nil {
		return result, err
	}

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		part, err := parts.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("%w: read part %d: %w", ErrMalformedPart, index, err)
		}
		if part == nil {
			u.logger.Debug("absent part terminates stream", zap.Int64("user_id", userID), zap.Int("index", index))
			break
		}

		outcome, err := u.storePart(ctx, userID, index, part)
		result.Outcomes = append(result.Outcomes, outcome)
		uploadPartsTotal.WithLabelValues(string(outcome.Status)).Inc()
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (u *Uploader) storePart(ctx context.Context, userID int64, index int, part Part) (PartOutcome, error) {
	name := part.FileName()
	outcome := PartOutcome{Index: index, FileName: name}

	if name == "" {
		// 普通表单字段，不是文件；读空以便继续下一个分片
		_, _ = io.Copy(io.Discard, part)
		outcome.Status = PartSkipped
		outcome.Reason = "part has no filename"
		return outcome, nil
	}

	key := storage.ObjectKey(u.newToken(), name)
	loc, err := u.store.Write(ctx, key, part)
	if err != nil {
		outcome.Status = PartFailed
		outcome.Reason = err.Error()
		return outcome, fmt.Errorf("%w: part %d (%s): %w", ErrStorage, index, name, err)
	}

	if loc.Size == 0 {
		if err := u.store.Remove(ctx, loc.Path); err != nil {
			u.logger.Warn("remove empty object", zap.String("path", loc.Path), zap.Error(err))
		}
		outcome.Status = PartSkipped
		outcome.Reason = "part is empty"
		return outcome, nil
	}

	record, err := u.files.Create(ctx, &repository.FileRecord{
		UserID: userID,
		Name:   name,
		Path:   loc.Path,
		Size:   loc.Size,
	})
	if err != nil {
		// 没有元数据行的字节就是孤儿文件，尽力删除
		if rmErr := u.store.Remove(context.WithoutCancel(ctx), loc.Path); rmErr != nil {
			u.logger.Error("remove orphaned object", zap.String("path", loc.Path), zap.Error(rmErr))
		}
		outcome.Status = PartFailed
		outcome.Reason = err.Error()
		return outcome, fmt.Errorf("register part %d (%s): %w", index, name, err)
	}

	uploadBytesTotal.Add(float64(record.Size))
	u.logger.Info("file stored",
		zap.Int64("user_id", userID),
		zap.Int64("file_id", record.ID),
		zap.String("path", record.Path),
		zap.Int64("size", record.Size),
	)

	outcome.Status = PartStored
	outcome.Record = record
	return outcome, nil
}
