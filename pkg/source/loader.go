package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// DefaultMaxBytes caps how much of a file the loader will read. Larger
// files would blow through model context windows long before this limit.
const DefaultMaxBytes = 256 * 1024

// FileLoader loads item content from files under Root. Items are the
// relative paths produced by Discover.
type FileLoader struct {
	Root string

	// MaxBytes overrides DefaultMaxBytes when positive.
	MaxBytes int64
}

// Load reads the file for item and returns its content.
func (l *FileLoader) Load(ctx context.Context, item string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.Root, item)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if info.Size() > limit {
		return "", fmt.Errorf("file %s is %d bytes, over the %d byte limit", item, info.Size(), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8 text", item)
	}
	return string(data), nil
}
