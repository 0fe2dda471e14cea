// Package archive stores exported artifacts on a local directory or an
// S3-compatible bucket.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/newthinker/fxscout/internal/core"
)

// Storage is a write-mostly object sink keyed by slash-separated paths.
type Storage interface {
	// Write stores data at key, replacing any previous object.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the object stored at key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URI renders key as a location a user can paste elsewhere.
	URI(key string) string
}

// Config selects and configures a backend.
type Config struct {
	Type string   `mapstructure:"type"` // "", "localfs" or "s3"
	Path string   `mapstructure:"path"`
	S3   S3Config `mapstructure:"s3"`
}

// Enabled reports whether an export backend is configured.
func (c Config) Enabled() bool {
	return c.Type != ""
}

// New builds the backend named by cfg.Type.
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "localfs":
		if cfg.Path == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("archive: localfs requires path"))
		}
		return NewLocalFS(cfg.Path)
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("archive: s3 requires bucket"))
		}
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("archive: unknown type %q", cfg.Type))
	}
}

// cleanKey normalizes key and rejects anything that escapes the root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(key, "..") {
		return "", core.WrapError(core.ErrInvalidInput, fmt.Errorf("archive: invalid key %q", key))
	}
	return cleaned, nil
}
