package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kubegems.io/servingconf/pkg/errors"
)

type ObjectMeta struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Lister returns the flat list of objects a backend holds for bucket, starting at prefix.
// Errors from the backend are returned as is.
type Lister interface {
	List(ctx context.Context, bucket string, prefix string) ([]ObjectMeta, error)
}

type Backend int

const (
	BackendS3 Backend = iota
	BackendGCS
	BackendMinIO
)

var backendSchemes = map[string]Backend{
	"s3":    BackendS3,
	"gs":    BackendGCS,
	"minio": BackendMinIO,
}

func (b Backend) String() string {
	switch b {
	case BackendS3:
		return "s3"
	case BackendGCS:
		return "gcs"
	case BackendMinIO:
		return "minio"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// Scheme is the bucket url scheme selecting b.
func (b Backend) Scheme() string {
	switch b {
	case BackendGCS:
		return "gs"
	case BackendMinIO:
		return "minio"
	default:
		return "s3"
	}
}

// Protocol is the scheme the serving runtime uses to read models stored on b.
// MinIO is read through the runtime's S3 filesystem.
func (b Backend) Protocol() string {
	if b == BackendGCS {
		return "gs"
	}
	return "s3"
}

func BackendForScheme(scheme string) (Backend, error) {
	if backend, ok := backendSchemes[strings.ToLower(scheme)]; ok {
		return backend, nil
	}
	return 0, errors.NewUnknownProtocolError(scheme)
}

type BucketURL struct {
	Backend Backend
	Bucket  string
	Prefix  string
}

func (u BucketURL) String() string {
	if u.Prefix == "" {
		return fmt.Sprintf("%s://%s", u.Backend.Scheme(), u.Bucket)
	}
	return fmt.Sprintf("%s://%s/%s", u.Backend.Scheme(), u.Bucket, u.Prefix)
}

// ParseBucketURL parses <scheme>://<bucket>[/<prefix>].
func ParseBucketURL(raw string) (BucketURL, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return BucketURL{}, errors.NewParameterInvalidError(fmt.Sprintf("invalid bucket url %q: missing scheme", raw))
	}
	backend, err := BackendForScheme(scheme)
	if err != nil {
		return BucketURL{}, err
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return BucketURL{}, errors.NewParameterInvalidError(fmt.Sprintf("invalid bucket url %q: missing bucket", raw))
	}
	return BucketURL{Backend: backend, Bucket: bucket, Prefix: prefix}, nil
}

type Options struct {
	S3    *S3Options    `json:"s3,omitempty" mapstructure:"s3"`
	GCS   *GCSOptions   `json:"gcs,omitempty" mapstructure:"gcs"`
	MinIO *MinIOOptions `json:"minio,omitempty" mapstructure:"minio"`
}

func NewDefaultOptions() *Options {
	return &Options{
		S3:    NewDefaultS3Options(),
		GCS:   NewDefaultGCSOptions(),
		MinIO: NewDefaultMinIOOptions(),
	}
}

func NewLister(ctx context.Context, backend Backend, opts *Options) (Lister, error) {
	switch backend {
	case BackendS3:
		return NewS3Lister(ctx, opts.S3)
	case BackendGCS:
		return NewGCSLister(ctx, opts.GCS)
	case BackendMinIO:
		return NewMinIOLister(opts.MinIO)
	default:
		return nil, errors.NewUnsupportedError("backend: " + backend.String())
	}
}
