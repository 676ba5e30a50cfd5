package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kubegems.io/servingconf/pkg/errors"
	"kubegems.io/servingconf/pkg/generator"
)

func testReport() *generator.ModelReport {
	return &generator.ModelReport{
		Location: "s3://bucket/models/",
		Models: []generator.ModelEntry{
			{
				Name:         "mnist",
				BasePath:     "s3://bucket/models/mnist",
				Objects:      3,
				Size:         1230000,
				LastModified: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestPrintReport(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, PrintReport(buf, testReport(), OutputTable))
		out := buf.String()
		assert.Contains(t, out, "s3://bucket/models/")
		assert.Contains(t, out, "mnist")
		assert.Contains(t, out, "1.23MB")
		assert.Contains(t, out, "2024-05-01 12:00:00")
	})
	t.Run("yaml", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, PrintReport(buf, testReport(), OutputYAML))
		assert.Contains(t, buf.String(), "basePath: s3://bucket/models/mnist")
		assert.Contains(t, buf.String(), "location: s3://bucket/models/")
	})
	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, PrintReport(buf, testReport(), OutputJSON))
		got := &generator.ModelReport{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), got))
		assert.Equal(t, testReport(), got)
	})
	t.Run("unknown", func(t *testing.T) {
		err := PrintReport(&bytes.Buffer{}, testReport(), "xml")
		assert.True(t, errors.IsErrCode(err, errors.ErrCodeInvalidParameter), "got %v", err)
	})
}

func TestServingConfCmd(t *testing.T) {
	cmd := NewServingConfCmd()
	for _, name := range []string{"storage-bucket", "file-path", "enable-batching", "monitoring-file-path", "max-batch-size"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	list, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)
	assert.Equal(t, "list", list.Name())
	assert.NotNil(t, list.Flags().ShorthandLookup("o"))
	assert.Nil(t, list.Flags().Lookup("file-path"))
}
