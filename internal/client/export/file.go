package export

import (
	"context"
	"path/filepath"

	"github.com/vitortiger/utm-tracker-saas/internal/filex"
)

// FileSink writes reports below Dir.
type FileSink struct {
	Dir string
}

func (f FileSink) Write(_ context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(f.Dir, filepath.FromSlash(key))
	if err := filex.WriteAtomic(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
