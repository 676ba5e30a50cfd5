package storage

import (
	"errors"

	"cloud.google.com/go/storage"
	"github.com/minio/minio-go/v7"
)

// IsBucketNotFound reports whether err is a backend error for a missing bucket.
func IsBucketNotFound(err error) bool {
	if err == nil {
		return false
	}
	if IsS3StorageNotFound(err) || errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	return minio.ToErrorResponse(err).Code == "NoSuchBucket"
}
