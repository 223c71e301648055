package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes items below a local directory
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing to dir, creating it if needed
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("dataset directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating dataset directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Push writes the item as <dir>/YYYY/MM/DD/<nanos>.json
func (s *FileSink) Push(ctx context.Context, item *Item) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodeItem(item)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(itemName(item)))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating dataset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing dataset item: %w", err)
	}

	return path, nil
}
