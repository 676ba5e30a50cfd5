package serving

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/opencontainers/go-digest"
)

const DefaultFileMode = 0o644

type ConfigWriter interface {
	Write(ctx context.Context, path string) error
}

// writeConfigFile replaces path with content through a temporary file in the
// same directory, so readers never observe a partially written config.
func writeConfigFile(ctx context.Context, path string, content []byte) error {
	log := logr.FromContextOrDiscard(ctx)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(DefaultFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info("successfully wrote config", "path", path, "digest", digest.FromBytes(content).String())
	return nil
}
