package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPrefix(t *testing.T) {
	assert.Equal(t, "", cleanPrefix(""))
	assert.Equal(t, "", cleanPrefix("/"))
	assert.Equal(t, "uploads", cleanPrefix("./uploads/"))
	assert.Equal(t, "a/b", cleanPrefix("/a//b"))
	assert.Equal(t, "data", cleanPrefix("../../data"))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "tok.png", joinKey("", "tok.png"))
	assert.Equal(t, "uploads/tok.png", joinKey("uploads", "tok.png"))
	assert.Equal(t, "uploads/tok", joinKey("uploads", "../tok"))
}

func TestStorage_Uninitialized(t *testing.T) {
	var s *Storage
	ctx := context.Background()

	_, err := s.Write(ctx, "k", nil)
	assert.Error(t, err)
	_, err = s.Read(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.Remove(ctx, "k"))
}
