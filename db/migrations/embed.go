package migrations

import "embed"

// FS 内嵌全部 goose 迁移脚本。
//
//go:embed *.sql
var FS embed.FS
