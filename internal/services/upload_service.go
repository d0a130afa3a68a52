package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"whatsapp_dashboard/internal/storage"
)

// UploadFolders are the folders files may be uploaded into.
var UploadFolders = []string{"tutorials", "notifications", "campaigns"}

type UploadService interface {
	Upload(ctx context.Context, folder, fileName, contentType string, size int64, r io.Reader) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

type uploadService struct {
	store storage.Storage
}

func NewUploadService(store storage.Storage) UploadService {
	return &uploadService{store: store}
}

// Upload stores the file under {folder}/{uuid}{ext} so names never collide.
func (s *uploadService) Upload(ctx context.Context, folder, fileName, contentType string, size int64, r io.Reader) (*storage.Object, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if !lo.Contains(UploadFolders, folder) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}
	ext := strings.ToLower(path.Ext(fileName))
	key := folder + "/" + uuid.NewString() + ext

	obj, err := s.store.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func (s *uploadService) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	folder, _, ok := strings.Cut(key, "/")
	if !ok || !lo.Contains(UploadFolders, folder) {
		return fmt.Errorf("%w: %q", ErrInvalidFolder, key)
	}
	return s.store.Delete(ctx, key)
}
