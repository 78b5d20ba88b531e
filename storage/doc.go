// Package storage connects bucketctl to an S3-compatible object store.
//
// # Supported Backends
//
//   - minio: minio-go client, works with MinIO and most S3-compatible services
//   - s3: aws-sdk-go-v2 client with path-style addressing and a custom endpoint
//
// # Usage
//
//	store, err := storage.Connect(ctx, storage.Config{
//	    Provider:  "minio",
//	    Host:      "play.min.io",
//	    AccessKey: "access",
//	    SecretKey: "secret",
//	    Secure:    true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc, err := bucketctl.NewService(store, "mybucket")
//
// # Subpackages
//
//   - storage/minio: minio-go implementation
//   - storage/s3: aws-sdk-go-v2 implementation
package storage
