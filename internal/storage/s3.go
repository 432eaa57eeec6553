// Package storage holds the blob-store client used for post images. The
// store speaks the S3 API and works against AWS or any S3-compatible
// endpoint (MinIO in development) via a custom BaseEndpoint.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/iliyamo/social-feed-api/internal/config"
)

// MaxImageBytes caps uploaded post images at 5 MB.
const MaxImageBytes = 5 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedImageExt reports whether a file extension (with leading dot,
// any case) is an accepted post image format.
func AllowedImageExt(ext string) bool {
	return allowedImageExt[strings.ToLower(ext)]
}

// ImageStore uploads post images to a bucket and hands back the public
// URL persisted on the post row.
type ImageStore struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewImageStore builds the S3 client from static credentials. It returns
// nil when no bucket is configured; callers treat a nil store as
// "uploads disabled" and reject image parts.
func NewImageStore(ctx context.Context, cfg config.Config) (*ImageStore, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.S3PublicBase
	if publicBase == "" && cfg.S3BaseEndpoint != "" {
		publicBase = strings.TrimSuffix(cfg.S3BaseEndpoint, "/") + "/" + cfg.S3Bucket
	}

	return &ImageStore{client: client, bucket: cfg.S3Bucket, publicBase: publicBase}, nil
}

// UploadPostImage streams an image body into the bucket under a dated,
// collision-free key and returns its public URL.
func (s *ImageStore) UploadPostImage(ctx context.Context, body io.Reader, ext, contentType string) (string, error) {
	key := imageKey(ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s.publicBase, "/") + "/" + key, nil
}

func imageKey(ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("posts/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(ext))
}
