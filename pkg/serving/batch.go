package serving

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"kubegems.io/servingconf/pkg/errors"
)

var _ ConfigWriter = &BatchConfigWriter{}

type BatchConfigWriter struct {
	MaxBatchSize       int
	BatchTimeoutMicros int
	MaxEnqueuedBatches int
	NumBatchThreads    int
}

// NewBatchConfigWriter validates the batching parameters. The number of
// batch threads is the number of CPUs of the host.
func NewBatchConfigWriter(maxBatchSize, batchTimeoutMicros, maxEnqueuedBatches int) (*BatchConfigWriter, error) {
	var errs field.ErrorList
	if maxBatchSize <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("maxBatchSize"), maxBatchSize, "must be greater than 0"))
	}
	if batchTimeoutMicros < 0 {
		errs = append(errs, field.Invalid(field.NewPath("batchTimeoutMicros"), batchTimeoutMicros, "must be non-negative"))
	}
	if maxEnqueuedBatches < 0 {
		errs = append(errs, field.Invalid(field.NewPath("maxEnqueuedBatches"), maxEnqueuedBatches, "must be non-negative"))
	}
	if len(errs) > 0 {
		return nil, errors.NewParameterInvalidError(errs.ToAggregate().Error())
	}
	return &BatchConfigWriter{
		MaxBatchSize:       maxBatchSize,
		BatchTimeoutMicros: batchTimeoutMicros,
		MaxEnqueuedBatches: maxEnqueuedBatches,
		NumBatchThreads:    runtime.NumCPU(),
	}, nil
}

func (w *BatchConfigWriter) Write(ctx context.Context, path string) error {
	logr.FromContextOrDiscard(ctx).V(1).Info("writing batch config file", "path", path)
	return writeConfigFile(ctx, path, w.Render())
}

func (w *BatchConfigWriter) Render() []byte {
	buf := &bytes.Buffer{}
	for _, block := range []struct {
		name  string
		value int
	}{
		{name: "max_batch_size", value: w.MaxBatchSize},
		{name: "batch_timeout_micros", value: w.BatchTimeoutMicros},
		{name: "max_enqueued_batches", value: w.MaxEnqueuedBatches},
		{name: "num_batch_threads", value: w.NumBatchThreads},
	} {
		fmt.Fprintf(buf, "%s {\n value: %d\n}\n", block.name, block.value)
	}
	return buf.Bytes()
}
