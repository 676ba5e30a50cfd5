package storage

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/go-logr/logr"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GCSOptions struct {
	CredentialsFile string `json:"credentialsFile,omitempty" mapstructure:"credentialsFile"`
	QuotaProject    string `json:"quotaProject,omitempty" mapstructure:"quotaProject"`
}

func NewDefaultGCSOptions() *GCSOptions {
	return &GCSOptions{}
}

type ObjectIterator interface {
	Next() (*storage.ObjectAttrs, error)
}

var _ Lister = &GCSLister{}

type GCSLister struct {
	// Objects opens an iterator over the objects of bucket matching query.
	Objects func(ctx context.Context, bucket string, query *storage.Query) ObjectIterator
	client  *storage.Client
}

func NewGCSLister(ctx context.Context, options *GCSOptions) (*GCSLister, error) {
	var clientopts []option.ClientOption
	if options.CredentialsFile != "" {
		clientopts = append(clientopts, option.WithCredentialsFile(options.CredentialsFile))
	}
	if options.QuotaProject != "" {
		clientopts = append(clientopts, option.WithQuotaProject(options.QuotaProject))
	}
	cli, err := storage.NewClient(ctx, clientopts...)
	if err != nil {
		return nil, err
	}
	return &GCSLister{
		client: cli,
		Objects: func(ctx context.Context, bucket string, query *storage.Query) ObjectIterator {
			return cli.Bucket(bucket).Objects(ctx, query)
		},
	}, nil
}

func (l *GCSLister) List(ctx context.Context, bucket string, prefix string) ([]ObjectMeta, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("bucket", bucket, "prefix", prefix)

	query := &storage.Query{Prefix: prefix}
	if err := query.SetAttrSelection([]string{"Name", "Size", "Updated"}); err != nil {
		return nil, err
	}
	it := l.Objects(ctx, bucket, query)
	var result []ObjectMeta
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		result = append(result, ObjectMeta{
			Name:         attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	log.V(1).Info("listed blobs", "count", len(result))
	return result, nil
}

func (l *GCSLister) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
