package generator

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"kubegems.io/servingconf/pkg/serving"
	"kubegems.io/servingconf/pkg/storage"
)

type ModelEntry struct {
	Name         string    `json:"name"`
	BasePath     string    `json:"basePath"`
	Objects      int       `json:"objects"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type ModelReport struct {
	Location string       `json:"location"`
	Models   []ModelEntry `json:"models"`
}

func ListModels(ctx context.Context, opts *Options) (*ModelReport, error) {
	return (&Generator{Options: opts, NewLister: storage.NewLister}).ListModels(ctx)
}

// ListModels lists the bucket once and summarizes every servable model, sorted by name.
func (g *Generator) ListModels(ctx context.Context) (*ModelReport, error) {
	bucketURL, err := g.Options.BucketURL()
	if err != nil {
		return nil, err
	}
	lister, err := g.NewLister(ctx, bucketURL.Backend, g.Options.Storage)
	if err != nil {
		return nil, err
	}
	if closer, ok := lister.(io.Closer); ok {
		defer closer.Close()
	}

	writer := serving.NewModelConfigWriter(bucketURL.Bucket, bucketURL.Prefix, bucketURL.Backend.Protocol(), lister)
	objects, err := lister.List(ctx, writer.Bucket, writer.Prefix)
	if err != nil {
		return nil, err
	}
	names := writer.FilterObjects(objects)
	slices.Sort(names)

	entries := make(map[string]*ModelEntry, len(names))
	report := &ModelReport{Location: writer.Location(), Models: make([]ModelEntry, len(names))}
	for i, name := range names {
		report.Models[i] = ModelEntry{Name: name, BasePath: writer.ModelURL(name)}
		entries[name] = &report.Models[i]
	}
	for _, obj := range objects {
		name, _, ok := strings.Cut(strings.TrimPrefix(obj.Name, writer.Prefix), serving.Separator)
		if !ok || !strings.HasPrefix(obj.Name, writer.Prefix) {
			continue
		}
		entry, ok := entries[name]
		if !ok {
			continue
		}
		entry.Objects++
		entry.Size += obj.Size
		if obj.LastModified.After(entry.LastModified) {
			entry.LastModified = obj.LastModified
		}
	}
	return report, nil
}
