package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newthinker/fxscout/internal/core"
)

// LocalFS implements Storage on a local directory
type LocalFS struct {
	basePath string
}

// NewLocalFS creates the base directory if needed
func NewLocalFS(basePath string) (*LocalFS, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("resolving %q: %w", basePath, err))
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, core.WrapError(core.ErrExportFailed, fmt.Errorf("creating base path: %w", err))
	}
	return &LocalFS{basePath: abs}, nil
}

func (l *LocalFS) fullPath(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(cleaned)), nil
}

func (l *LocalFS) Write(ctx context.Context, key string, data []byte) error {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return core.WrapError(core.ErrExportFailed, fmt.Errorf("creating directories: %w", err))
	}

	// Write then rename so readers never see a partial file.
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		os.Remove(tmp)
		return core.WrapError(core.ErrExportFailed, err)
	}
	return nil
}

func (l *LocalFS) Read(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("archive: %s not found", key))
	}
	return data, err
}

func (l *LocalFS) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (l *LocalFS) URI(key string) string {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(fullPath)
}
