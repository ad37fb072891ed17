package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"regexp"
	"time"

	"github.com/estatehub/backend-go/internal/storage"
)

// UploadService stores listing photos and returns their public URLs
type UploadService interface {
	SavePhotos(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type uploadService struct {
	store  storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewUploadService creates a new upload service instance
func NewUploadService(store storage.Store, logger *slog.Logger) UploadService {
	return &uploadService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// SavePhotos writes every file in order. Files already written stay in place
// if a later one fails.
func (s *uploadService) SavePhotos(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		data, err := readAll(header)
		if err != nil {
			s.logger.Error("❌ [UploadService] Could not read file", "filename", header.Filename, "error", err)
			return nil, err
		}

		name := StoredFileName(s.now(), header.Filename)
		contentType := header.Header.Get("Content-Type")

		url, err := s.store.Save(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
		if err != nil {
			s.logger.Error("❌ [UploadService] Could not store file", "filename", name, "error", err)
			return nil, err
		}

		s.logger.Debug("📁 [UploadService] Stored photo", "filename", name, "size_bytes", len(data))
		urls = append(urls, url)
	}

	s.logger.Info("✅ [UploadService] Photos stored", "count", len(urls))
	return urls, nil
}

// StoredFileName is the millisecond timestamp joined to the sanitized original name
func StoredFileName(at time.Time, original string) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), unsafeNameChars.ReplaceAllString(original, ""))
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", header.Filename, err)
	}
	return data, nil
}
