package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Kalpesh-Product/wono-ticketing/internal/config"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// UploadStore persists ticket attachments on local disk and hands back
// opaque storage keys. Size and type screening beyond the byte cap is the
// upload collaborator's concern.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore ensures the upload directory exists.
func NewUploadStore(cfg config.UploadConfig) (*UploadStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: cfg.Dir, maxBytes: cfg.MaxBytes}, nil
}

// Save writes the uploaded file and returns its storage key.
func (s *UploadStore) Save(header *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", apperrors.NewValidationError("attachment too large", map[string]any{
			"max_bytes": s.maxBytes,
			"size":      header.Size,
		})
	}

	src, err := header.Open()
	if err != nil {
		return "", apperrors.NewValidationError("unreadable attachment", nil)
	}
	defer src.Close()

	key := uuid.NewString() + "_" + sanitizeFileName(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return key, nil
}

// Open returns a reader for a previously stored attachment.
func (s *UploadStore) Open(key string) (io.ReadCloser, error) {
	clean := sanitizeFileName(key)
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFound("attachment", map[string]any{"key": key})
		}
		return nil, err
	}
	return f, nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, string(os.PathSeparator), "_")
	if base == "" || base == "." {
		base = "attachment"
	}
	return base
}
