package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/DanilaOak/uploader/internal/ident"
	"github.com/DanilaOak/uploader/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler 提供上传、列表与下载端点。
type FileHandler struct {
	uploader       *service.Uploader
	files          *service.FileService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewFileHandler(uploader *service.Uploader, files *service.FileService, maxUploadBytes int64, logger *zap.Logger) *FileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileHandler{
		uploader:       uploader,
		files:          files,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{user_id}/files", func(r chi.Router) {
		r.Post("/", h.UploadFiles)
		r.Get("/", h.ListFiles)
		r.Get("/{file_id}", h.DownloadFile)
	})
}

// UploadFiles 接收 multipart/form-data，逐个分片落盘并登记，返回本次创建的记录数组。
// 非 multipart 或 Content-Length 为 0 的请求直接返回空数组，不产生任何副作用。
func (h *FileHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.uploader == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	userID, err := ident.Parse(chi.URLParam(r, "user_id"), ident.LabelUser)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if !isMultipartForm(r) || r.ContentLength == 0 {
		writeJSON(w, http.StatusOK, []fileResponse{})
		return
	}

	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		// 缺少 boundary 等情况与非 multipart 请求同样处理
		writeJSON(w, http.StatusOK, []fileResponse{})
		return
	}

	result, err := h.uploader.Upload(r.Context(), userID, newMultipartSource(reader))
	if err != nil {
		stored := 0
		if result != nil {
			stored = len(result.Records())
		}
		h.writeUploadError(w, r, userID, stored, err)
		return
	}

	writeJSON(w, http.StatusOK, newFileResponses(result.Records()))
}

func (h *FileHandler) writeUploadError(w http.ResponseWriter, r *http.Request, userID int64, stored int, err error) {
	fields := []zap.Field{
		zap.Int64("user_id", userID),
		zap.Int("stored_parts", stored),
		zap.Error(err),
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.logger.Info("upload body too large", fields...)
		writeError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
	case errors.Is(err, context.Canceled):
		// 客户端已断开，响应无人接收
		h.logger.Info("upload canceled by client", fields...)
	case errors.Is(err, service.ErrMalformedPart):
		h.logger.Info("malformed multipart body", fields...)
		writeError(w, http.StatusBadRequest, "invalid multipart body")
	case errors.Is(err, service.ErrStorage):
		h.logger.Error("store uploaded part", fields...)
		writeError(w, http.StatusInternalServerError, "failed to store file")
	default:
		h.logger.Error("upload failed", fields...)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *FileHandler) tooLargeMessage() string {
	return fmt.Sprintf("request body exceeds %d bytes", h.maxUploadBytes)
}

// ListFiles 返回用户的全部文件记录。
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.files == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	rawUserID := chi.URLParam(r, "user_id")
	userID, err := ident.Parse(rawUserID, ident.LabelUser)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	files, err := h.files.ListFiles(r.Context(), userID)
	if err != nil {
		h.writeLookupError(w, err, rawUserID, "")
		return
	}

	writeJSON(w, http.StatusOK, newFileResponses(files))
}

// DownloadFile 以原始字节返回文件内容。
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.files == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	rawUserID := chi.URLParam(r, "user_id")
	userID, err := ident.Parse(rawUserID, ident.LabelUser)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	rawFileID := chi.URLParam(r, "file_id")
	fileID, err := ident.Parse(rawFileID, ident.LabelFile)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	file, content, err := h.files.OpenFile(r.Context(), userID, fileID)
	if err != nil {
		h.writeLookupError(w, err, rawUserID, rawFileID)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		// 客户端可能已断开，无法再写入错误响应
		h.logger.Warn("stream file", zap.Int64("file_id", fileID), zap.Error(err))
	}
}

func (h *FileHandler) writeLookupError(w http.ResponseWriter, err error, rawUserID, rawFileID string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, (&ident.NotFoundError{Label: ident.LabelUser, Raw: rawUserID}).Error())
	case errors.Is(err, service.ErrFileNotFound):
		writeError(w, http.StatusNotFound, (&ident.NotFoundError{Label: ident.LabelFile, Raw: rawFileID}).Error())
	default:
		h.logger.Error("file lookup failed", zap.String("user_id", rawUserID), zap.String("file_id", rawFileID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
