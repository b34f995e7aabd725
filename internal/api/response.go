package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanilaOak/uploader/internal/repository"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

// fileResponse 是文件记录的对外表示，creation_date 在此处才转为文本。
type fileResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	CreationDate string `json:"creation_date"`
}

func newFileResponse(rec repository.FileRecord) fileResponse {
	return fileResponse{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Name:         rec.Name,
		Path:         rec.Path,
		Size:         rec.Size,
		CreationDate: rec.CreationDate.Format(time.RFC3339Nano),
	}
}

func newFileResponses(records []repository.FileRecord) []fileResponse {
	out := make([]fileResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newFileResponse(rec))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}
