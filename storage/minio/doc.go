// Package minio implements bucketctl.ObjectStore with the minio-go client.
//
// It works against MinIO and any S3-compatible service that minio-go
// supports. Listing is always recursive, and a NoSuchBucket response is
// reported as bucketctl.ErrNoSuchBucket.
package minio
