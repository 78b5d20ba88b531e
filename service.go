package bucketctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ObjectStore defines the object-storage operations the service delegates to.
// Implementations wrap a concrete client (minio-go, aws-sdk-go-v2) and keep
// their own error types; the service wraps but never inspects them.
//
// All methods block until the backend answers and accept a context for
// cancellation and timeout control.
type ObjectStore interface {
	// BucketExists reports whether bucket exists.
	//
	// Returns:
	//   - bool: true if the bucket exists
	//   - error: Network, permission or other backend errors. A missing
	//     bucket is not an error.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// MakeBucket creates bucket.
	MakeBucket(ctx context.Context, bucket string) error

	// PutFile streams the local file at path into bucket under name.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - bucket: Destination bucket
	//   - name: Object name
	//   - path: Local file path to read from
	//
	// Returns:
	//   - PutResult: ETag and size reported by the backend
	//   - error: Local I/O or backend errors
	PutFile(ctx context.Context, bucket, name, path string) (PutResult, error)

	// Get opens the full content of an object for reading.
	// The caller is responsible for closing the returned ReadCloser.
	Get(ctx context.Context, bucket, name string) (io.ReadCloser, error)

	// List enumerates every object in bucket, recursing into nested
	// prefixes, in the order the backend reports them.
	//
	// Implementations should return an empty slice (not nil) for an
	// empty bucket.
	List(ctx context.Context, bucket string) ([]ObjectEntry, error)
}

// Prompter asks the user a question and returns the raw answer.
// Implementations return ErrCancelled when the user interrupts the prompt.
type Prompter interface {
	Prompt(label string) (string, error)
}

const downloadPrompt = "Choose file to download"

// Service runs bucket-scoped operations against an ObjectStore.
// It holds no state besides the store and the bucket name.
type Service struct {
	store  ObjectStore
	bucket string
}

// NewService returns a Service operating on bucket. The bucket name is not
// validated; an empty or malformed name fails at the backend.
func NewService(store ObjectStore, bucket string) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("new service: %w", ErrStoreRequired)
	}
	return &Service{store: store, bucket: bucket}, nil
}

// Bucket returns the bucket the service operates on.
func (s *Service) Bucket() string {
	return s.bucket
}

// EnsureBucket checks that the bucket exists before an operation runs.
//
// When the bucket is missing:
//   - ActionList: returns ErrNoSuchBucket so the caller can stop cleanly
//   - any other action: the bucket is created
//
// Returns an error wrapping the backend error if the existence check or
// the creation fails.
func (s *Service) EnsureBucket(ctx context.Context, action Action) error {
	found, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if found {
		return nil
	}

	if action == ActionList {
		return fmt.Errorf("check bucket %s: %w", s.bucket, ErrNoSuchBucket)
	}

	slog.Debug("creating bucket", "bucket", s.bucket, "action", action)
	if err := s.store.MakeBucket(ctx, s.bucket); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores the local file under its base name in the bucket.
//
// The method performs the following steps:
//  1. Ensures the bucket exists, creating it if needed
//  2. Resolves localPath to an absolute path
//  3. Derives the object name from the base name (see ObjectName)
//  4. Streams the file to the backend
//
// Callers treat every returned error as a reportable, non-fatal failure.
func (s *Service) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if err := s.EnsureBucket(ctx, ActionUpload); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	absPath, name, err := ObjectName(localPath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	slog.Debug("uploading object", "bucket", s.bucket, "object", name, "path", absPath)

	put, err := s.store.PutFile(ctx, s.bucket, name, absPath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", absPath, err)
	}

	return &UploadResult{
		LocalPath:  absPath,
		Bucket:     s.bucket,
		ObjectName: name,
		ETag:       put.ETag,
		Size:       put.Size,
	}, nil
}

// List returns every object in the bucket in backend order. The action
// decides what happens when the bucket is missing (see EnsureBucket).
func (s *Service) List(ctx context.Context, action Action) ([]ObjectEntry, error) {
	if err := s.EnsureBucket(ctx, action); err != nil {
		return nil, err
	}

	entries, err := s.store.List(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("list bucket %s: %w", s.bucket, err)
	}

	slog.Debug("listed bucket", "bucket", s.bucket, "objects", len(entries))
	return entries, nil
}

// Download asks the user to pick one of entries and writes that object to
// a local file named after it.
//
// The prompt is repeated until a valid choice is made:
//   - input that is not a number prints a hint and re-prompts
//   - a number outside 1..len(entries) prints "No such object, try again."
//     and re-prompts
//   - an interrupt from the Prompter returns ErrCancelled
//
// Returns ErrEmptyBucket without prompting when entries is empty.
// Errors from fetching or writing the chosen object are returned as is.
func (s *Service) Download(ctx context.Context, entries []ObjectEntry, opts DownloadOptions) (*DownloadResult, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("download: %w", ErrEmptyBucket)
	}
	if opts.Prompter == nil {
		return nil, errors.New("download: prompter is required")
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}

		answer, err := opts.Prompter.Prompt(downloadPrompt)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("download: prompt: %w", err)
		}

		idx, err := ParseChoice(answer, len(entries))
		switch {
		case errors.Is(err, ErrNoSuchObject):
			_, _ = fmt.Fprintln(out, "No such object, try again.")
			continue
		case err != nil:
			_, _ = fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", len(entries))
			continue
		}

		return s.fetch(ctx, entries[idx], opts.Dir)
	}
}

// fetch copies one object into dir under its remote name. Writes go
// through os.Root so names containing ".." cannot leave dir.
func (s *Service) fetch(ctx context.Context, entry ObjectEntry, dir string) (*DownloadResult, error) {
	if dir == "" {
		dir = "."
	}

	slog.Debug("downloading object", "bucket", s.bucket, "object", entry.Name, "dir", dir)

	content, err := s.store.Get(ctx, s.bucket, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", entry.Name, err)
	}
	defer func() { _ = content.Close() }()

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("download %s: open directory: %w", entry.Name, err)
	}
	defer func() { _ = root.Close() }()

	localName := filepath.FromSlash(entry.Name)
	if parent := filepath.Dir(localName); parent != "." {
		if err := root.MkdirAll(parent, 0o750); err != nil {
			return nil, fmt.Errorf("download %s: create directory: %w", entry.Name, err)
		}
	}

	file, err := root.Create(localName)
	if err != nil {
		return nil, fmt.Errorf("download %s: create file: %w", entry.Name, err)
	}

	written, copyErr := io.Copy(file, content)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		if rmErr := root.Remove(localName); rmErr != nil {
			slog.Warn("failed to remove partial download", "file", localName, "err", rmErr)
		}
		return nil, fmt.Errorf("download %s: write file: %w", entry.Name, errors.Join(copyErr, closeErr))
	}

	return &DownloadResult{
		ObjectName: entry.Name,
		LocalPath:  filepath.Join(dir, localName),
		Size:       written,
	}, nil
}
