package serving

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"kubegems.io/servingconf/pkg/errors"
	"kubegems.io/servingconf/pkg/storage"
)

const ModelPlatformTensorflow = "tensorflow"

var _ ConfigWriter = &ModelConfigWriter{}

// ModelConfigWriter writes a model_config_list with one entry per model found in a bucket.
type ModelConfigWriter struct {
	Protocol string
	Bucket   string
	Prefix   string
	Suffix   string
	Lister   storage.Lister
}

func NewModelConfigWriter(bucket, prefix, protocol string, lister storage.Lister) *ModelConfigWriter {
	return &ModelConfigWriter{
		Protocol: protocol,
		Bucket:   bucket,
		Prefix:   NormalizePrefix(prefix),
		Suffix:   DefaultArtifactSuffix,
		Lister:   lister,
	}
}

func (w *ModelConfigWriter) ModelURL(model string) string {
	return fmt.Sprintf("%s://%s/%s%s", w.Protocol, w.Bucket, w.Prefix, model)
}

func (w *ModelConfigWriter) Location() string {
	return fmt.Sprintf("%s://%s/%s", w.Protocol, w.Bucket, w.Prefix)
}

func (w *ModelConfigWriter) ListModels(ctx context.Context) ([]string, error) {
	objects, err := w.Lister.List(ctx, w.Bucket, w.Prefix)
	if err != nil {
		return nil, err
	}
	return w.FilterObjects(objects), nil
}

// FilterObjects returns the models found among objects.
func (w *ModelConfigWriter) FilterObjects(objects []storage.ObjectMeta) []string {
	keys := func(yield func(string) bool) {
		for _, obj := range objects {
			if !yield(obj.Name) {
				return
			}
		}
	}
	return slices.Collect(FilterModels(keys, w.Prefix, w.Suffix))
}

// Write fails without touching path when no model is found.
func (w *ModelConfigWriter) Write(ctx context.Context, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("location", w.Location())
	log.V(1).Info("writing model config file", "path", path)

	models, err := w.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.NewNoModelsError(w.Location())
	}
	log.Info("found models", "count", len(models))
	log.V(1).Info("found models", "models", models)

	return writeConfigFile(ctx, path, w.Render(models))
}

func (w *ModelConfigWriter) Render(models []string) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("model_config_list: {\n")
	for _, model := range models {
		buf.WriteString("    config: {\n")
		fmt.Fprintf(buf, "        name: \"%s\"\n", model)
		fmt.Fprintf(buf, "        base_path: \"%s\"\n", w.ModelURL(model))
		fmt.Fprintf(buf, "        model_platform: \"%s\"\n", ModelPlatformTensorflow)
		buf.WriteString("        model_version_policy: {\n")
		buf.WriteString("            all: {}\n")
		buf.WriteString("        }\n")
		buf.WriteString("    }\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}
