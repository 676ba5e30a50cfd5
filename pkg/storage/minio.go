package storage

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOOptions struct {
	Endpoint  string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	AccessKey string `json:"accessKey,omitempty" mapstructure:"accessKey"`
	SecretKey string `json:"secretKey,omitempty" mapstructure:"secretKey"`
	Region    string `json:"region,omitempty" mapstructure:"region"`
	UseSSL    bool   `json:"useSSL,omitempty" mapstructure:"useSSL"`
}

func NewDefaultMinIOOptions() *MinIOOptions {
	return &MinIOOptions{
		Endpoint: "localhost:9000",
		UseSSL:   false,
	}
}

type ListObjectsAPI interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

var _ Lister = &MinIOLister{}

type MinIOLister struct {
	Client ListObjectsAPI
}

func NewMinIOLister(options *MinIOOptions) (*MinIOLister, error) {
	cli, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  miniocredentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
		Region: options.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinIOLister{Client: cli}, nil
}

func (l *MinIOLister) List(ctx context.Context, bucket string, prefix string) ([]ObjectMeta, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("bucket", bucket, "prefix", prefix)

	// stops the listing goroutine when returning early on error
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result []ObjectMeta
	for obj := range l.Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		result = append(result, ObjectMeta{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	log.V(1).Info("listed objects", "count", len(result))
	return result, nil
}
