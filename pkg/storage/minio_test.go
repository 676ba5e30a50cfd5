package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinIO struct {
	objects []minio.ObjectInfo
	opts    minio.ListObjectsOptions
	bucket  string
}

func (f *fakeMinIO) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	f.bucket, f.opts = bucketName, opts
	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		for _, obj := range f.objects {
			select {
			case ch <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func TestMinIOLister_List(t *testing.T) {
	fake := &fakeMinIO{objects: []minio.ObjectInfo{
		{Key: "models/a/1/saved_model.pb", Size: 3},
		{Key: "models/b/1/saved_model.pb", Size: 4},
	}}
	lister := &MinIOLister{Client: fake}
	got, err := lister.List(context.Background(), "bucket", "models/")
	require.NoError(t, err)
	assert.Equal(t, []string{"models/a/1/saved_model.pb", "models/b/1/saved_model.pb"}, names(got))
	assert.Equal(t, "bucket", fake.bucket)
	assert.Equal(t, "models/", fake.opts.Prefix)
	assert.True(t, fake.opts.Recursive)
}

func TestMinIOLister_ListError(t *testing.T) {
	backendErr := errors.New("connection refused")
	fake := &fakeMinIO{objects: []minio.ObjectInfo{
		{Key: "models/a/1/saved_model.pb"},
		{Err: backendErr},
		{Key: "models/b/1/saved_model.pb"},
	}}
	_, err := (&MinIOLister{Client: fake}).List(context.Background(), "bucket", "models/")
	assert.Same(t, backendErr, err)
}

func TestIsBucketNotFound(t *testing.T) {
	assert.False(t, IsBucketNotFound(nil))
	assert.False(t, IsBucketNotFound(errors.New("boom")))
	assert.True(t, IsBucketNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
}
