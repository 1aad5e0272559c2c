package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"linguazone/internal/config"
	"linguazone/internal/domain"
	"linguazone/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements domain.MediaStore on a MinIO bucket. References
// are object keys of the form "<category>/<ulid><ext>".
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the media bucket exists.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Store implements domain.MediaStore
func (s *MinioStore) Store(ctx context.Context, category string, upload *domain.Upload) (string, error) {
	if upload == nil || upload.Open == nil {
		return "", domain.NewValidationError("no file supplied")
	}

	ext := filepath.Ext(upload.Filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("%s/%s%s", category, util.NewULID(), strings.ToLower(ext))

	contentType := upload.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	reader, err := upload.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", upload.Filename, err)
	}
	defer reader.Close()

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, reader, upload.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// Remove implements domain.MediaStore. Removing a missing object is a
// no-op, so callers can treat deletion as idempotent.
func (s *MinioStore) Remove(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, reference, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", reference, err)
	}
	return nil
}
