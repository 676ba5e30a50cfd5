package serving

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.conf")
	require.NoError(t, writeConfigFile(context.Background(), path, []byte("a\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DefaultFileMode), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestWriteConfigFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "models.conf")
	err := writeConfigFile(context.Background(), path, []byte("a\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestConfigWriters(t *testing.T) {
	batch, err := NewBatchConfigWriter(8, 1000, 16)
	require.NoError(t, err)
	writers := map[string]ConfigWriter{
		"models.conf":     NewModelConfigWriter("bucket", "models", "s3", &fakeLister{objects: objects("models/a/1/saved_model.pb")}),
		"batch.conf":      batch,
		"monitoring.conf": NewMonitoringConfigWriter(true, DefaultMonitoringPath),
	}
	dir := t.TempDir()
	for name, w := range writers {
		require.NoError(t, w.Write(context.Background(), filepath.Join(dir, name)), name)
		assert.FileExists(t, filepath.Join(dir, name))
	}
}
