package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/sagarc03/bucketctl"
)

// defaultRegion accepts CreateBucket without a location constraint.
const defaultRegion = "us-east-1"

// API is the subset of the S3 client used by Store.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds aws-sdk-go-v2 connection settings.
type Config struct {
	// Endpoint is host[:port] without scheme. Empty uses the AWS default
	// endpoint for the region.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// Store implements bucketctl.ObjectStore on top of the AWS SDK S3 client.
type Store struct {
	api    API
	region string
}

var _ bucketctl.ObjectStore = (*Store)(nil)

// New builds an S3 client with static credentials and path-style
// addressing so MinIO and other S3-compatible hosts work.
func New(ctx context.Context, cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.Secure))
			// S3-compatible servers do not all accept the default CRC checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return NewWithAPI(client, region), nil
}

// NewWithAPI wraps an existing client. Tests use it to inject a mock.
func NewWithAPI(api API, region string) *Store {
	if region == "" {
		region = defaultRegion
	}
	return &Store{api: api, region: region}
}

func endpointURL(host string, secure bool) string {
	if secure {
		return "https://" + host
	}
	return "http://" + host
}

// BucketExists reports whether bucket exists. A not-found HeadBucket
// response yields false with no error.
func (s *Store) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("s3: head bucket: %w", err)
}

// MakeBucket creates bucket. Regions other than us-east-1 need an explicit
// location constraint.
func (s *Store) MakeBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if s.region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.api.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("s3: create bucket: %w", err)
	}
	return nil
}

// PutFile uploads the file at path as bucket/name.
func (s *Store) PutFile(ctx context.Context, bucket, name, path string) (bucketctl.PutResult, error) {
	file, err := os.Open(path) //#nosec G304 -- path is the file the user asked to upload
	if err != nil {
		return bucketctl.PutResult{}, fmt.Errorf("s3: open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return bucketctl.PutResult{}, fmt.Errorf("s3: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return bucketctl.PutResult{}, fmt.Errorf("s3: %s is a directory", path)
	}

	out, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(name),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return bucketctl.PutResult{}, translateError(fmt.Errorf("s3: put object: %w", err))
	}

	slog.Debug("s3 put object", "bucket", bucket, "object", name, "size", info.Size())
	return bucketctl.PutResult{ETag: aws.ToString(out.ETag), Size: info.Size()}, nil
}

// Get opens bucket/name for reading.
func (s *Store) Get(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, translateError(fmt.Errorf("s3: get object: %w", err))
	}
	return out.Body, nil
}

// List returns every object in bucket across all result pages.
func (s *Store) List(ctx context.Context, bucket string) ([]bucketctl.ObjectEntry, error) {
	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	entries := []bucketctl.ObjectEntry{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError(fmt.Errorf("s3: list objects: %w", err))
		}
		for _, obj := range page.Contents {
			entries = append(entries, bucketctl.ObjectEntry{
				Name:         aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
				Size:         aws.ToInt64(obj.Size),
				ETag:         aws.ToString(obj.ETag),
			})
		}
	}

	slog.Debug("s3 list objects", "bucket", bucket, "count", len(entries))
	return entries, nil
}

// isNotFound reports whether err is a missing-bucket response. HeadBucket
// has no body, so the SDK reports a bare NotFound.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

func translateError(err error) error {
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return fmt.Errorf("%w: %w", bucketctl.ErrNoSuchBucket, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket" {
		return fmt.Errorf("%w: %w", bucketctl.ErrNoSuchBucket, err)
	}
	return err
}
