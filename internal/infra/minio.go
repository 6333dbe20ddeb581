package infra

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"betafeedback/internal/config"
	"betafeedback/pkg/utils"
)

// MinIOArchiver keeps a copy of every archived export in an object bucket.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinIOArchiver(ctx context.Context, cfg *config.Config) (*MinIOArchiver, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinIOBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinIOBucket, err)
		}
	}
	return &MinIOArchiver{client: client, bucket: cfg.MinIOBucket}, nil
}

func (m *MinIOArchiver) Archive(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	key := archiveKey(filename, time.Now())
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// archiveKey stores filename under exports/ with the UTC time of day and a
// random suffix, so exports taken on the same day never overwrite each other.
func archiveKey(filename string, now time.Time) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return path.Join("exports", fmt.Sprintf("%s-%s-%s%s", base, now.UTC().Format("150405"), suffix, ext))
}

// DisabledArchiver is used when no object store is configured.
type DisabledArchiver struct{}

func (DisabledArchiver) Archive(context.Context, string, string, []byte) (string, error) {
	return "", utils.ErrArchiveDisabled
}
