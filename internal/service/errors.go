package service

import "errors"

var (
	// ErrUserNotFound 表示请求的 user_id 没有对应的用户记录。
	ErrUserNotFound = errors.New("user not found")
	// ErrFileNotFound 表示文件不存在或不属于该用户。
	ErrFileNotFound = errors.New("file not found")
	// ErrStorage 表示写入存储后端失败，当前分片作废。
	ErrStorage = errors.New("storage failure")
	// ErrMalformedPart 表示无法从请求体中读出下一个分片。
	ErrMalformedPart = errors.New("malformed multipart stream")
)
