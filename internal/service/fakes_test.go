package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/DanilaOak/uploader/internal/repository"
	"github.com/DanilaOak/uploader/internal/storage"
)

type memDB struct {
	mu          sync.Mutex
	users       map[int64]bool
	userInserts int
	files       []repository.FileRecord
	paths       map[string]bool
	nextID      int64
}

func newMemDB() *memDB {
	return &memDB{users: map[int64]bool{}, paths: map[string]bool{}}
}

func (db *memDB) fileCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.files)
}

type memUsers struct {
	db        *memDB
	existsErr error
	createErr error
}

func (m *memUsers) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.db.users[id], nil
}

func (m *memUsers) Create(ctx context.Context, id int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.users[id] {
		return nil
	}
	m.db.users[id] = true
	m.db.userInserts++
	return nil
}

type memFiles struct {
	db        *memDB
	createErr error
}

func (m *memFiles) Create(ctx context.Context, record *repository.FileRecord) (*repository.FileRecord, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if !m.db.users[record.UserID] {
		return nil, errors.New("foreign key violation")
	}
	if m.db.paths[record.Path] {
		return nil, repository.ErrConflict
	}
	m.db.nextID++
	rec := *record
	rec.ID = m.db.nextID
	rec.CreationDate = time.Now().UTC()
	m.db.files = append(m.db.files, rec)
	m.db.paths[rec.Path] = true
	return &rec, nil
}

func (m *memFiles) GetByID(ctx context.Context, id int64) (*repository.FileRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, f := range m.db.files {
		if f.ID == id {
			rec := f
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memFiles) Exists(ctx context.Context, id, userID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, f := range m.db.files {
		if f.ID == id && f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFiles) ListByUser(ctx context.Context, userID int64) ([]repository.FileRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := make([]repository.FileRecord, 0)
	for _, f := range m.db.files {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type memStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	removed  []string
	writeErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Write(ctx context.Context, key string, r io.Reader) (storage.Location, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Location{}, err
	}
	if s.writeErr != nil {
		return storage.Location{}, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "/mem/" + key
	s.objects[path] = data
	return storage.Location{Path: path, Size: int64(len(data))}, nil
}

func (s *memStorage) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	s.removed = append(s.removed, path)
	return nil
}

type fakePart struct {
	name string
	r    io.Reader
	read bool
}

func newPart(name, body string) *fakePart {
	return &fakePart{name: name, r: bytes.NewBufferString(body)}
}

func (p *fakePart) FileName() string { return p.name }

func (p *fakePart) Read(b []byte) (int, error) {
	p.read = true
	return p.r.Read(b)
}

// sliceSource 依次返回 parts，nil 元素表示缺失的分片。
type sliceSource struct {
	parts []Part
	pos   int
	err   error
}

func (s *sliceSource) NextPart() (Part, error) {
	if s.pos >= len(s.parts) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	p := s.parts[s.pos]
	s.pos++
	return p, nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk full") }
