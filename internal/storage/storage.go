package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/templui/inkpost/internal/config"
)

// Storage is the object store attachments are uploaded to.
type Storage interface {
	// Upload stores the object at key. size may be -1 when unknown.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PublicURL resolves the permanent URL readers fetch the object from.
	PublicURL(ctx context.Context, key string) (string, error)
}

// New builds the storage driver selected by S3_DRIVER.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	slog.Debug("initializing storage",
		"driver", c.Storage.Driver,
		"bucket", c.Storage.Bucket,
		"endpoint", c.Storage.Endpoint,
	)

	switch c.Storage.Driver {
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Region:    c.Storage.Region,
			Bucket:    c.Storage.Bucket,
			AccessKey: c.Storage.AccessKey,
			SecretKey: c.Storage.SecretKey,
			Endpoint:  c.Storage.Endpoint,
		})
	case "minio":
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:  c.Storage.Endpoint,
			AccessKey: c.Storage.AccessKey,
			SecretKey: c.Storage.SecretKey,
			Bucket:    c.Storage.Bucket,
			Region:    c.Storage.Region,
			UseSSL:    c.Storage.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
}
