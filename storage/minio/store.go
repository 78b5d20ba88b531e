package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sagarc03/bucketctl"
)

// Config holds minio-go connection settings.
type Config struct {
	// Endpoint is host[:port] without scheme.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// Store implements bucketctl.ObjectStore on top of a minio-go client.
type Store struct {
	client *minio.Client
	region string
}

var _ bucketctl.ObjectStore = (*Store)(nil)

// New creates a Store. The client is lazy: no request is sent until the
// first operation.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio: endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}

	return &Store{client: client, region: cfg.Region}, nil
}

// BucketExists reports whether bucket exists.
func (s *Store) BucketExists(ctx context.Context, bucket string) (bool, error) {
	found, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, translateError(err)
	}
	return found, nil
}

// MakeBucket creates bucket in the configured region.
func (s *Store) MakeBucket(ctx context.Context, bucket string) error {
	err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region})
	if err != nil {
		return translateError(err)
	}
	return nil
}

// PutFile uploads the file at path as bucket/name.
func (s *Store) PutFile(ctx context.Context, bucket, name, path string) (bucketctl.PutResult, error) {
	info, err := s.client.FPutObject(ctx, bucket, name, path, minio.PutObjectOptions{})
	if err != nil {
		return bucketctl.PutResult{}, translateError(err)
	}
	slog.Debug("minio put object", "bucket", bucket, "object", name, "size", info.Size, "etag", info.ETag)
	return bucketctl.PutResult{ETag: info.ETag, Size: info.Size}, nil
}

// Get opens bucket/name for reading. The object is stat'ed first so a
// missing key fails here rather than on the first Read.
func (s *Store) Get(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, translateError(err)
	}

	return obj, nil
}

// List returns every object in bucket, recursing into nested prefixes.
func (s *Store) List(ctx context.Context, bucket string) ([]bucketctl.ObjectEntry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := []bucketctl.ObjectEntry{}
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, translateError(obj.Err)
		}
		entries = append(entries, toEntry(obj))
	}

	slog.Debug("minio list objects", "bucket", bucket, "count", len(entries))
	return entries, nil
}

func toEntry(obj minio.ObjectInfo) bucketctl.ObjectEntry {
	return bucketctl.ObjectEntry{
		Name:         obj.Key,
		LastModified: obj.LastModified,
		Size:         obj.Size,
		ETag:         obj.ETag,
	}
}

// translateError maps a missing bucket onto bucketctl.ErrNoSuchBucket and
// keeps the backend error in the chain.
func translateError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchBucket" {
		return fmt.Errorf("%w: %w", bucketctl.ErrNoSuchBucket, err)
	}
	return err
}
