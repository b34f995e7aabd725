package api

import (
	"context"
	"sync"
	"time"

	"github.com/DanilaOak/uploader/internal/repository"
)

type handlerDB struct {
	mu     sync.Mutex
	users  map[int64]bool
	files  []repository.FileRecord
	nextID int64
}

func newHandlerDB() *handlerDB {
	return &handlerDB{users: map[int64]bool{}}
}

func (db *handlerDB) userCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users)
}

func (db *handlerDB) fileCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.files)
}

type handlerUsers struct{ db *handlerDB }

func (u handlerUsers) Exists(ctx context.Context, id int64) (bool, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	return u.db.users[id], nil
}

func (u handlerUsers) Create(ctx context.Context, id int64) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.users[id] = true
	return nil
}

type handlerFiles struct{ db *handlerDB }

func (f handlerFiles) Create(ctx context.Context, record *repository.FileRecord) (*repository.FileRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.nextID++
	rec := *record
	rec.ID = f.db.nextID
	rec.CreationDate = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f.db.files = append(f.db.files, rec)
	return &rec, nil
}

func (f handlerFiles) GetByID(ctx context.Context, id int64) (*repository.FileRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, rec := range f.db.files {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f handlerFiles) Exists(ctx context.Context, id, userID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, rec := range f.db.files {
		if rec.ID == id && rec.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f handlerFiles) ListByUser(ctx context.Context, userID int64) ([]repository.FileRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]repository.FileRecord, 0)
	for _, rec := range f.db.files {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
