// Package s3 implements bucketctl.ObjectStore with aws-sdk-go-v2.
//
// The client always uses path-style addressing. When an endpoint host is
// configured it becomes the base endpoint, with the scheme taken from the
// Secure setting, so the same store talks to AWS, MinIO or LocalStack.
//
// # Testing
//
// NewWithAPI accepts any value implementing API, which lets tests replace
// the SDK client with a mock.
package s3
