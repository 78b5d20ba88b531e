package bucketctl

import "errors"

var (
	// ErrNoSuchBucket is returned when a listing targets a bucket that does not exist
	ErrNoSuchBucket = errors.New("no such bucket")
	// ErrCancelled is returned when the user aborts an interactive prompt
	ErrCancelled = errors.New("cancelled")
	// ErrEmptyBucket is returned when there is nothing to choose from for a download
	ErrEmptyBucket = errors.New("bucket is empty")
	// ErrStoreRequired is returned when a Service is built without a backend
	ErrStoreRequired = errors.New("object store is required")
	// ErrEmptyPath is returned when an upload is requested without a local path
	ErrEmptyPath = errors.New("path is required")
	// ErrInvalidChoice is returned when a download selection is not a number
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrNoSuchObject is returned when a download selection is outside the listing
	ErrNoSuchObject = errors.New("no such object")
)
