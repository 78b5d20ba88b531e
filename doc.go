// Package bucketctl provides the object operations behind the bucketctl
// command: uploading a local file, listing a bucket, and interactively
// downloading one object from an S3-compatible service.
//
// # Key Components
//
//   - ObjectStore: Interface over an object-storage backend (MinIO, AWS S3)
//   - Service: Bucket-scoped operations built on an ObjectStore
//   - Prompter: Source of interactive answers for the download selection
//
// # Bucket Handling
//
// Every operation first checks that the bucket exists. A listing against a
// missing bucket reports ErrNoSuchBucket so the caller can stop cleanly;
// uploads and downloads create the bucket instead.
//
// # Example Usage
//
//	svc, err := bucketctl.NewService(store, "backups")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := svc.Upload(ctx, "./photo.jpg")
//	if err != nil {
//	    fmt.Println(err)
//	}
//
//	entries, err := svc.List(ctx, bucketctl.ActionDownload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	downloaded, err := svc.Download(ctx, entries, bucketctl.DownloadOptions{
//	    Prompter: prompter,
//	    Out:      os.Stdout,
//	})
//
// # Subpackages
//
//   - storage: provider selection and connection
//   - storage/minio: MinIO backend using minio-go
//   - storage/s3: AWS S3 backend using aws-sdk-go-v2
//   - config: YAML, environment and flag configuration
//   - console: human and JSON output, promptui prompts
package bucketctl
