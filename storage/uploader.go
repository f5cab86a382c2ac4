// Package storage uploads report images to an S3-compatible bucket. The
// creation pipeline embeds images as data URLs and does not call this; the
// uploader is provisioned at startup for deployments that archive originals
// out of band.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"civic-report-service/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

// Uploader writes objects to a single bucket
type Uploader struct {
	client *minio.Client
	bucket string
	region string
}

// NewUploader creates an uploader from the object-storage config
func NewUploader(cfg *config.Config) (*Uploader, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Uploader{client: client, bucket: cfg.S3Bucket, region: cfg.S3Region}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: u.region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores image bytes under a fresh key and returns the public URL
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no image data to upload")
	}

	key := ObjectKey(contentType)
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// ObjectKey builds a unique object key for an image of the given content type
func ObjectKey(contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = "jpg"
	}
	return fmt.Sprintf("reports/%s.%s", uuid.NewString(), ext)
}
