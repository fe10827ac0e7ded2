// Package s3 mirrors imported sprites to an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// Ensure Sink implements the interface.
var _ driven.AssetSink = (*Sink)(nil)

// DefaultRegion is used when the mirror has no region configured.
const DefaultRegion = "us-east-1"

// Sink uploads each sprite and its sidecar to a bucket under
// "{prefix}/{fileKey}/{name}.png".
type Sink struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	mu    sync.Mutex
	ready bool
}

// NewSink creates a mirror sink from settings.
func NewSink(cfg domain.MirrorSettings) (*Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, &domain.ConfigError{Field: domain.KeyMirrorEndpoint, Reason: "mirror endpoint is required"}
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, &domain.ConfigError{Field: domain.KeyMirrorAccess, Reason: "mirror access key and secret key are required"}
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, &domain.ConfigError{Field: domain.KeyMirrorBucket, Reason: "mirror bucket is required"}
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = DefaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, &domain.ConfigError{Field: domain.KeyMirrorEndpoint, Reason: err.Error()}
	}

	return &Sink{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

// Persist uploads the image and its sidecar and returns the image's
// s3:// location.
func (s *Sink) Persist(ctx context.Context, req domain.AssetRequest) (string, error) {
	size, err := assets.CheckPNG(req.Image)
	if err != nil {
		return "", err
	}
	sidecar, err := assets.NewSpriteMeta(req, size).Marshal()
	if err != nil {
		return "", err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("%w: ensure bucket %s: %v", domain.ErrIO, s.bucket, err)
	}

	key := s.objectKey(req.FileKey, req.FileName())
	if err := s.put(ctx, key, req.Image, "image/png"); err != nil {
		return "", err
	}
	if err := s.put(ctx, key+assets.MetaSuffix, sidecar, "application/toml"); err != nil {
		return "", err
	}

	loc := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	logger.Debug("Mirrored %s", loc)
	return loc, nil
}

func (s *Sink) put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", domain.ErrIO, key, err)
	}
	return nil
}

// ensureBucket creates the bucket on first use. Only success is
// remembered; a failed check is retried by the next call.
func (s *Sink) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *Sink) objectKey(fileKey, name string) string {
	return path.Join(s.prefix, domain.SafeFileName(fileKey), name)
}
