package serving

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

const DefaultMonitoringPath = "/monitoring/prometheus/metrics"

var _ ConfigWriter = &MonitoringConfigWriter{}

type MonitoringConfigWriter struct {
	Enabled bool
	Path    string
}

func NewMonitoringConfigWriter(enabled bool, path string) *MonitoringConfigWriter {
	return &MonitoringConfigWriter{Enabled: enabled, Path: path}
}

func (w *MonitoringConfigWriter) Write(ctx context.Context, path string) error {
	logr.FromContextOrDiscard(ctx).V(1).Info("writing monitoring config file", "path", path)
	return writeConfigFile(ctx, path, w.Render())
}

func (w *MonitoringConfigWriter) Render() []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("prometheus_config: {\n")
	fmt.Fprintf(buf, "  enable: %t,\n", w.Enabled)
	fmt.Fprintf(buf, "  path: \"%s\"\n", w.Path)
	buf.WriteString("}\n")
	return buf.Bytes()
}
