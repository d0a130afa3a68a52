package storage

import (
	"context"
	"io"
	"path"

	"whatsapp_dashboard/pkg/nocodb"
)

type nocodbUploader interface {
	Upload(ctx context.Context, path, fileName, contentType string, r io.Reader) (*nocodb.UploadedFile, error)
}

// NocoDBStorage keeps files in NocoDB's attachment storage.
type NocoDBStorage struct {
	client nocodbUploader
}

func NewNocoDB(client nocodbUploader) *NocoDBStorage {
	return &NocoDBStorage{client: client}
}

func (n *NocoDBStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	f, err := n.client.Upload(ctx, path.Dir(key), path.Base(key), contentType, r)
	if err != nil {
		return Object{}, err
	}
	if f.Size > 0 {
		size = f.Size
	}
	return Object{Key: key, URL: f.URL, Size: size, ContentType: contentType}, nil
}

// Delete is unsupported: NocoDB removes attachments only with the row referencing them.
func (n *NocoDBStorage) Delete(context.Context, string) error {
	return ErrUnsupported
}
