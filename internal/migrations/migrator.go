// Package migrations 通过 goose 执行内嵌的数据库迁移。
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	dbmigrations "github.com/DanilaOak/uploader/db/migrations"

	"github.com/pressly/goose/v3"
)

// gooseUpContext 便于测试替换 goose.UpContext。
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Apply 执行 embed 的全部 up 迁移脚本，已应用的版本由 goose 版本表跳过。
func Apply(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("nil database connection")
	}

	goose.SetBaseFS(dbmigrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
