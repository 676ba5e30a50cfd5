package generator

import (
	"context"
	"io"

	"github.com/go-logr/logr"
	"kubegems.io/servingconf/pkg/serving"
	"kubegems.io/servingconf/pkg/storage"
)

type Target struct {
	Path   string
	Writer serving.ConfigWriter
}

// NewListerFunc builds the lister of a backend, replaced in tests.
type NewListerFunc func(ctx context.Context, backend storage.Backend, opts *storage.Options) (storage.Lister, error)

type Generator struct {
	Options   *Options
	NewLister NewListerFunc
}

func Run(ctx context.Context, opts *Options) error {
	return (&Generator{Options: opts, NewLister: storage.NewLister}).Run(ctx)
}

// Run writes the model config, then the batch and monitoring configs when enabled.
// Parameters are validated before the bucket is listed and the first failure stops the run.
func (g *Generator) Run(ctx context.Context) error {
	opts := g.Options
	bucketURL, err := opts.BucketURL()
	if err != nil {
		return err
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("bucket", bucketURL.String())

	var batch *serving.BatchConfigWriter
	if opts.EnableBatching {
		if batch, err = serving.NewBatchConfigWriter(opts.MaxBatchSize, opts.BatchTimeout, opts.MaxEnqueuedBatches); err != nil {
			return err
		}
	}

	lister, err := g.NewLister(ctx, bucketURL.Backend, opts.Storage)
	if err != nil {
		return err
	}
	if closer, ok := lister.(io.Closer); ok {
		defer closer.Close()
	}

	targets := []Target{{
		Path:   opts.FilePath,
		Writer: serving.NewModelConfigWriter(bucketURL.Bucket, bucketURL.Prefix, bucketURL.Backend.Protocol(), lister),
	}}
	if batch != nil {
		targets = append(targets, Target{Path: opts.BatchFilePath, Writer: batch})
	}
	if opts.MonitoringFilePath != "" {
		targets = append(targets, Target{
			Path:   opts.MonitoringFilePath,
			Writer: serving.NewMonitoringConfigWriter(opts.EnableMonitoring, opts.MonitoringPath),
		})
	}

	for _, target := range targets {
		if err := target.Writer.Write(ctx, target.Path); err != nil {
			if storage.IsBucketNotFound(err) {
				log.Error(err, "bucket not found")
			}
			return err
		}
	}
	log.Info("config files written", "count", len(targets))
	return nil
}
