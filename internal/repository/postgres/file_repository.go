package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/DanilaOak/uploader/internal/repository"
)

// NewFileRepository 返回基于 DBTX 的 Postgres 实现。
func NewFileRepository(db DBTX) *FileRepository {
	return &FileRepository{db: db}
}

// FileRepository 实现 repository.FileRepository。
type FileRepository struct {
	db DBTX
}

var fileSelectColumns = strings.Join([]string{
	"id",
	"user_id",
	"name",
	"path",
	"size",
	"creation_date",
}, ",")

// Create 插入文件记录，id 与 creation_date 由数据库生成并随 RETURNING 返回。
func (r *FileRepository) Create(ctx context.Context, record *repository.FileRecord) (*repository.FileRecord, error) {
	if record == nil {
		return nil, fmt.Errorf("file record is nil")
	}

	query := fmt.Sprintf(`INSERT INTO file (user_id,name,path,size)
	VALUES ($1,$2,$3,$4)
	RETURNING %s`, fileSelectColumns)

	row := r.db.QueryRowContext(ctx, query,
		record.UserID,
		record.Name,
		record.Path,
		record.Size,
	)

	rec, err := scanFileRecord(row)
	if err != nil {
		return nil, wrapError(err)
	}
	return rec, nil
}

// GetByID 通过主键查询文件记录。
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*repository.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM file WHERE id = $1`, fileSelectColumns)
	rec, err := scanFileRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapError(err)
	}
	return rec, nil
}

// Exists 判断文件是否存在且属于指定用户。
func (r *FileRepository) Exists(ctx context.Context, id, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM file WHERE id = $1 AND user_id = $2)`, id, userID,
	).Scan(&exists)
	if err != nil {
		return false, wrapError(err)
	}
	return exists, nil
}

// ListByUser 按主键顺序返回用户的全部文件。
func (r *FileRepository) ListByUser(ctx context.Context, userID int64) ([]repository.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM file WHERE user_id = $1 ORDER BY id`, fileSelectColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	result := make([]repository.FileRecord, 0)
	for rows.Next() {
		rec, err := scanFileRecord(rows)
		if err != nil {
			return nil, wrapError(err)
		}
		result = append(result, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError(err)
	}

	return result, nil
}

func scanFileRecord(rs rowScanner) (*repository.FileRecord, error) {
	var rec repository.FileRecord
	if err := rs.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Name,
		&rec.Path,
		&rec.Size,
		&rec.CreationDate,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
