package bucketctl_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sagarc03/bucketctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SpyObjectStore struct {
	mock.Mock
}

func (s *SpyObjectStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := s.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (s *SpyObjectStore) MakeBucket(ctx context.Context, bucket string) error {
	args := s.Called(ctx, bucket)
	return args.Error(0)
}

func (s *SpyObjectStore) PutFile(ctx context.Context, bucket, name, path string) (bucketctl.PutResult, error) {
	args := s.Called(ctx, bucket, name, path)
	return args.Get(0).(bucketctl.PutResult), args.Error(1)
}

func (s *SpyObjectStore) Get(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	args := s.Called(ctx, bucket, name)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *SpyObjectStore) List(ctx context.Context, bucket string) ([]bucketctl.ObjectEntry, error) {
	args := s.Called(ctx, bucket)
	if entries := args.Get(0); entries != nil {
		return entries.([]bucketctl.ObjectEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// scriptedPrompter answers prompts from a fixed list and reports
// ErrCancelled once the list is exhausted.
type scriptedPrompter struct {
	answers []string
	asked   int
}

func (p *scriptedPrompter) Prompt(_ string) (string, error) {
	if p.asked >= len(p.answers) {
		return "", bucketctl.ErrCancelled
	}
	answer := p.answers[p.asked]
	p.asked++
	return answer, nil
}

func newService(t *testing.T, store bucketctl.ObjectStore) *bucketctl.Service {
	t.Helper()
	svc, err := bucketctl.NewService(store, "mybucket")
	require.NoError(t, err)
	return svc
}

func sampleEntries() []bucketctl.ObjectEntry {
	modified := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []bucketctl.ObjectEntry{
		{Name: "a.txt", LastModified: modified, Size: 3},
		{Name: "docs/b.txt", LastModified: modified, Size: 5},
		{Name: "photo.jpg", LastModified: modified, Size: 8},
	}
}

func TestNewService(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := bucketctl.NewService(nil, "mybucket")
		assert.ErrorIs(t, err, bucketctl.ErrStoreRequired)
	})

	t.Run("empty bucket allowed", func(t *testing.T) {
		svc, err := bucketctl.NewService(new(SpyObjectStore), "")
		require.NoError(t, err)
		assert.Empty(t, svc.Bucket())
	})
}

func TestService_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket is untouched", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)

		err := newService(t, store).EnsureBucket(ctx, bucketctl.ActionUpload)
		require.NoError(t, err)
		store.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything)
	})

	t.Run("missing bucket on list", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, nil)

		err := newService(t, store).EnsureBucket(ctx, bucketctl.ActionList)
		assert.ErrorIs(t, err, bucketctl.ErrNoSuchBucket)
		store.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything)
	})

	for _, action := range []bucketctl.Action{bucketctl.ActionUpload, bucketctl.ActionDownload} {
		t.Run("missing bucket is created on "+string(action), func(t *testing.T) {
			store := new(SpyObjectStore)
			store.On("BucketExists", ctx, "mybucket").Return(false, nil)
			store.On("MakeBucket", ctx, "mybucket").Return(nil)

			err := newService(t, store).EnsureBucket(ctx, action)
			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}

	t.Run("existence check error", func(t *testing.T) {
		backendErr := errors.New("connection refused")
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, backendErr)

		err := newService(t, store).EnsureBucket(ctx, bucketctl.ActionList)
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("create error", func(t *testing.T) {
		backendErr := errors.New("access denied")
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, nil)
		store.On("MakeBucket", ctx, "mybucket").Return(backendErr)

		err := newService(t, store).EnsureBucket(ctx, bucketctl.ActionUpload)
		assert.ErrorIs(t, err, backendErr)
	})
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("uses base name as object name", func(t *testing.T) {
		dir := t.TempDir()
		localPath := filepath.Join(dir, "nested", "report.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(localPath), 0o750))
		require.NoError(t, os.WriteFile(localPath, []byte("a,b,c"), 0o600))

		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("PutFile", ctx, "mybucket", "report.csv", localPath).
			Return(bucketctl.PutResult{ETag: "etag1", Size: 5}, nil)

		result, err := newService(t, store).Upload(ctx, localPath)
		require.NoError(t, err)
		assert.Equal(t, localPath, result.LocalPath)
		assert.Equal(t, "report.csv", result.ObjectName)
		assert.Equal(t, "mybucket", result.Bucket)
		assert.Equal(t, "etag1", result.ETag)
		assert.Equal(t, int64(5), result.Size)
		store.AssertExpectations(t)
	})

	t.Run("same base name in different directories collides", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("PutFile", ctx, "mybucket", "report.csv", mock.Anything).
			Return(bucketctl.PutResult{}, nil)

		svc := newService(t, store)
		first, err := svc.Upload(ctx, "/a/b/report.csv")
		require.NoError(t, err)
		second, err := svc.Upload(ctx, "/c/d/report.csv")
		require.NoError(t, err)

		assert.Equal(t, first.ObjectName, second.ObjectName)
		store.AssertNumberOfCalls(t, "PutFile", 2)
	})

	t.Run("relative path is made absolute", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		expected := filepath.Join(wd, "photo.jpg")

		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("PutFile", ctx, "mybucket", "photo.jpg", expected).
			Return(bucketctl.PutResult{}, nil)

		result, err := newService(t, store).Upload(ctx, "./photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, expected, result.LocalPath)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, nil)
		store.On("MakeBucket", ctx, "mybucket").Return(nil)
		store.On("PutFile", ctx, "mybucket", "photo.jpg", mock.Anything).
			Return(bucketctl.PutResult{}, nil)

		_, err := newService(t, store).Upload(ctx, "/tmp/photo.jpg")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("backend error is returned", func(t *testing.T) {
		backendErr := errors.New("no such file or directory")
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("PutFile", ctx, "mybucket", "missing.bin", mock.Anything).
			Return(bucketctl.PutResult{}, backendErr)

		_, err := newService(t, store).Upload(ctx, "/tmp/missing.bin")
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("empty path", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)

		_, err := newService(t, store).Upload(ctx, "")
		assert.ErrorIs(t, err, bucketctl.ErrEmptyPath)
		store.AssertNotCalled(t, "PutFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns entries in backend order", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("List", ctx, "mybucket").Return(sampleEntries(), nil)

		entries, err := newService(t, store).List(ctx, bucketctl.ActionList)
		require.NoError(t, err)
		assert.Equal(t, sampleEntries(), entries)
	})

	t.Run("missing bucket stops listing", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, nil)

		_, err := newService(t, store).List(ctx, bucketctl.ActionList)
		assert.ErrorIs(t, err, bucketctl.ErrNoSuchBucket)
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("missing bucket is created for download", func(t *testing.T) {
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(false, nil)
		store.On("MakeBucket", ctx, "mybucket").Return(nil)
		store.On("List", ctx, "mybucket").Return([]bucketctl.ObjectEntry{}, nil)

		entries, err := newService(t, store).List(ctx, bucketctl.ActionDownload)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("backend error", func(t *testing.T) {
		backendErr := errors.New("timeout")
		store := new(SpyObjectStore)
		store.On("BucketExists", ctx, "mybucket").Return(true, nil)
		store.On("List", ctx, "mybucket").Return(nil, backendErr)

		_, err := newService(t, store).List(ctx, bucketctl.ActionList)
		assert.ErrorIs(t, err, backendErr)
	})
}

func TestService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches the chosen entry", func(t *testing.T) {
		dir := t.TempDir()
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "photo.jpg").
			Return(io.NopCloser(bytes.NewReader([]byte("jpegdata"))), nil)

		prompter := &scriptedPrompter{answers: []string{"3"}}
		result, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: prompter,
			Dir:      dir,
		})
		require.NoError(t, err)

		assert.Equal(t, "photo.jpg", result.ObjectName)
		assert.Equal(t, filepath.Join(dir, "photo.jpg"), result.LocalPath)
		assert.Equal(t, int64(8), result.Size)

		content, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "jpegdata", string(content))
	})

	t.Run("zero and out of range re-prompt", func(t *testing.T) {
		dir := t.TempDir()
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "a.txt").
			Return(io.NopCloser(bytes.NewReader([]byte("abc"))), nil)

		var out bytes.Buffer
		prompter := &scriptedPrompter{answers: []string{"0", "4", "-1", "1"}}
		result, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: prompter,
			Out:      &out,
			Dir:      dir,
		})
		require.NoError(t, err)

		assert.Equal(t, "a.txt", result.ObjectName)
		assert.Equal(t, 4, prompter.asked)
		assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("No such object, try again.")))
		store.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("non-number re-prompts", func(t *testing.T) {
		dir := t.TempDir()
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "a.txt").
			Return(io.NopCloser(bytes.NewReader([]byte("abc"))), nil)

		var out bytes.Buffer
		prompter := &scriptedPrompter{answers: []string{"first", "", " 1 "}}
		_, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: prompter,
			Out:      &out,
			Dir:      dir,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, prompter.asked)
		assert.Contains(t, out.String(), "Please enter a number between 1 and 3.")
	})

	t.Run("cancel stops without fetching", func(t *testing.T) {
		store := new(SpyObjectStore)
		prompter := &scriptedPrompter{}

		_, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: prompter,
			Dir:      t.TempDir(),
		})
		assert.ErrorIs(t, err, bucketctl.ErrCancelled)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nested object creates directories", func(t *testing.T) {
		dir := t.TempDir()
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "docs/b.txt").
			Return(io.NopCloser(bytes.NewReader([]byte("hello"))), nil)

		_, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: &scriptedPrompter{answers: []string{"2"}},
			Dir:      dir,
		})
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "docs", "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("name escaping the directory is rejected", func(t *testing.T) {
		dir := t.TempDir()
		entries := []bucketctl.ObjectEntry{{Name: "../escape.txt"}}
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "../escape.txt").
			Return(io.NopCloser(bytes.NewReader([]byte("x"))), nil)

		_, err := newService(t, store).Download(ctx, entries, bucketctl.DownloadOptions{
			Prompter: &scriptedPrompter{answers: []string{"1"}},
			Dir:      dir,
		})
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.txt"))
	})

	t.Run("empty listing", func(t *testing.T) {
		prompter := &scriptedPrompter{answers: []string{"1"}}
		_, err := newService(t, new(SpyObjectStore)).Download(ctx, nil, bucketctl.DownloadOptions{
			Prompter: prompter,
		})
		assert.ErrorIs(t, err, bucketctl.ErrEmptyBucket)
		assert.Zero(t, prompter.asked)
	})

	t.Run("get error", func(t *testing.T) {
		backendErr := errors.New("object vanished")
		store := new(SpyObjectStore)
		store.On("Get", ctx, "mybucket", "a.txt").Return(nil, backendErr)

		_, err := newService(t, store).Download(ctx, sampleEntries(), bucketctl.DownloadOptions{
			Prompter: &scriptedPrompter{answers: []string{"1"}},
			Dir:      t.TempDir(),
		})
		assert.ErrorIs(t, err, backendErr)
	})
}
