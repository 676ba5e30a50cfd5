package serving

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kubegems.io/servingconf/pkg/errors"
)

func TestNewBatchConfigWriter(t *testing.T) {
	tests := []struct {
		name               string
		maxBatchSize       int
		batchTimeoutMicros int
		maxEnqueuedBatches int
		wantErr            bool
	}{
		{name: "valid", maxBatchSize: 1, batchTimeoutMicros: 3000000, maxEnqueuedBatches: 5},
		{name: "zero timeout and queue", maxBatchSize: 2, batchTimeoutMicros: 0, maxEnqueuedBatches: 0},
		{name: "negative batch size", maxBatchSize: -2, batchTimeoutMicros: 1, maxEnqueuedBatches: 1, wantErr: true},
		{name: "zero batch size", maxBatchSize: 0, batchTimeoutMicros: 1, maxEnqueuedBatches: 1, wantErr: true},
		{name: "negative timeout", maxBatchSize: 2, batchTimeoutMicros: -1, maxEnqueuedBatches: 1, wantErr: true},
		{name: "negative queue", maxBatchSize: 2, batchTimeoutMicros: 1, maxEnqueuedBatches: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewBatchConfigWriter(tt.maxBatchSize, tt.batchTimeoutMicros, tt.maxEnqueuedBatches)
			if tt.wantErr {
				assert.True(t, errors.IsErrCode(err, errors.ErrCodeInvalidParameter), "got %v", err)
				assert.Nil(t, w)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, runtime.NumCPU(), w.NumBatchThreads)
		})
	}
}

func TestNewBatchConfigWriterReportsEveryField(t *testing.T) {
	_, err := NewBatchConfigWriter(-1, -1, -1)
	require.Error(t, err)
	for _, field := range []string{"maxBatchSize", "batchTimeoutMicros", "maxEnqueuedBatches"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestBatchConfigWriter_Write(t *testing.T) {
	w, err := NewBatchConfigWriter(1, 3000000, 5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "batch.conf")
	require.NoError(t, w.Write(context.Background(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	want := fmt.Sprintf("max_batch_size {\n value: 1\n}\n"+
		"batch_timeout_micros {\n value: 3000000\n}\n"+
		"max_enqueued_batches {\n value: 5\n}\n"+
		"num_batch_threads {\n value: %d\n}\n", runtime.NumCPU())
	assert.Equal(t, want, string(raw))
}
