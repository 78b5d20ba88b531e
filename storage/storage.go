package storage

import (
	"context"
	"fmt"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/storage/minio"
	"github.com/sagarc03/bucketctl/storage/s3"
)

// Supported providers.
const (
	ProviderMinio = "minio"
	ProviderS3    = "s3"
)

// Config holds the connection settings for an object-storage backend.
type Config struct {
	// Provider selects the client library: "minio" or "s3".
	Provider string
	// Host is the service endpoint as host[:port], without scheme.
	Host      string
	AccessKey string
	SecretKey string
	Region    string
	// Secure enables TLS.
	Secure bool
}

// Connect builds the ObjectStore for the configured provider. No request is
// sent; connection problems surface on the first operation.
func Connect(ctx context.Context, cfg Config) (bucketctl.ObjectStore, error) {
	switch cfg.Provider {
	case ProviderMinio, "":
		store, err := minio.New(minio.Config{
			Endpoint:  cfg.Host,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("connect minio: %w", err)
		}
		return store, nil
	case ProviderS3:
		store, err := s3.New(ctx, s3.Config{
			Endpoint:  cfg.Host,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("connect s3: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
