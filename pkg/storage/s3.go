package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/transport/http"
	"github.com/go-logr/logr"
	"k8s.io/utils/pointer"
)

const DefaultS3Region = "us-east-1"

type S3Options struct {
	URL       string `json:"url,omitempty" mapstructure:"url"`
	Region    string `json:"region,omitempty" mapstructure:"region"`
	AccessKey string `json:"accessKey,omitempty" mapstructure:"accessKey"`
	SecretKey string `json:"secretKey,omitempty" mapstructure:"secretKey"`
	PathStyle bool   `json:"pathStyle,omitempty" mapstructure:"pathStyle"`
}

func NewDefaultS3Options() *S3Options {
	return &S3Options{
		URL:       "",
		Region:    "",
		AccessKey: "",
		SecretKey: "",
		PathStyle: false,
	}
}

type ListObjectsV2API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ Lister = &S3Lister{}

type S3Lister struct {
	Client ListObjectsV2API
}

func NewS3Lister(ctx context.Context, options *S3Options) (*S3Lister, error) {
	var loadopts []func(*config.LoadOptions) error
	if options.AccessKey != "" {
		loadopts = append(loadopts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}
	if options.Region != "" {
		loadopts = append(loadopts, config.WithRegion(options.Region))
	}
	if options.URL != "" {
		loadopts = append(loadopts, config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{URL: options.URL, HostnameImmutable: options.PathStyle}, nil
				},
			),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadopts...)
	if err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = DefaultS3Region
	}
	s3cli := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = options.PathStyle
	})
	return &S3Lister{Client: s3cli}, nil
}

// List lists every key after prefix. Keys come back in lexicographic order,
// so paging stops at the first page that ends outside of prefix.
func (l *S3Lister) List(ctx context.Context, bucket string, prefix string) ([]ObjectMeta, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("bucket", bucket, "startAfter", prefix)

	listinput := &s3.ListObjectsV2Input{
		Bucket:     aws.String(bucket),
		StartAfter: aws.String(prefix),
	}
	var result []ObjectMeta
	for {
		listobjout, err := l.Client.ListObjectsV2(ctx, listinput)
		if err != nil {
			return nil, err
		}
		lastkey := ""
		for _, obj := range listobjout.Contents {
			lastkey = pointer.StringDeref(obj.Key, "")
			result = append(result, ObjectMeta{
				Name:         lastkey,
				Size:         obj.Size,
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
		log.V(1).Info("listed objects page", "count", len(listobjout.Contents), "truncated", listobjout.IsTruncated)
		if !listobjout.IsTruncated {
			break
		}
		if lastkey != "" && !strings.HasPrefix(lastkey, prefix) {
			log.V(1).Info("stop listing past prefix", "key", lastkey)
			break
		}
		listinput.ContinuationToken = listobjout.NextContinuationToken
	}
	return result, nil
}

func IsS3StorageNotFound(err error) bool {
	var apie *http.ResponseError
	if errors.As(err, &apie) {
		return apie.HTTPStatusCode() == 404
	}
	return false
}
