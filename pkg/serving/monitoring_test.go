package serving

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringConfigWriter_Write(t *testing.T) {
	tests := []struct {
		enabled bool
		path    string
	}{
		{enabled: true, path: DefaultMonitoringPath},
		{enabled: false, path: "/x"},
		{enabled: false, path: "/other/path"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%t %s", tt.enabled, tt.path), func(t *testing.T) {
			w := NewMonitoringConfigWriter(tt.enabled, tt.path)
			path := filepath.Join(t.TempDir(), "monitoring.conf")
			require.NoError(t, w.Write(context.Background(), path))

			content := readLines(t, path)
			require.Len(t, content, 4)
			assert.Equal(t, "prometheus_config: {\n", content[0])
			assert.Equal(t, fmt.Sprintf("  enable: %t,\n", tt.enabled), content[1])
			assert.Equal(t, fmt.Sprintf("  path: \"%s\"\n", tt.path), content[2])
			assert.Equal(t, "}\n", content[3])
		})
	}
}

func TestMonitoringConfigWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitoring.conf")
	require.NoError(t, NewMonitoringConfigWriter(true, "/a").Write(context.Background(), path))
	require.NoError(t, NewMonitoringConfigWriter(false, "/x").Write(context.Background(), path))

	content := readLines(t, path)
	assert.Equal(t, "  enable: false,\n", content[1])
	assert.Equal(t, "  path: \"/x\"\n", content[2])
}
