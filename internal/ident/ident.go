// Package ident 负责校验 URL 路径中的数字标识（user_id、file_id）。
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const (
	LabelUser = "User"
	LabelFile = "File"
)

// ErrNotFound 是所有标识校验失败的公共哨兵错误，便于 errors.Is 判断。
var ErrNotFound = errors.New("ident: not found")

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// NotFoundError 表示标识格式非法。非法格式与记录不存在按同一语义处理，统一返回 404。
type NotFoundError struct {
	Label string
	Raw   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%s not found", e.Label, e.Raw)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Parse 要求 raw 完整匹配 ^[0-9]+$，不接受符号和首尾空白，允许前导零。
func Parse(raw, label string) (int64, error) {
	if !digitsPattern.MatchString(raw) {
		return 0, &NotFoundError{Label: label, Raw: raw}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// 超出 int64 范围的数字串不可能对应任何记录
		return 0, &NotFoundError{Label: label, Raw: raw}
	}
	return id, nil
}
