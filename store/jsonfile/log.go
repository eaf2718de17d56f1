// Package jsonfile stores a record log as a single JSON array in one file.
//
// Every append rewrites the whole document: the current array is read, the
// record is added and the result replaces the file atomically. Readers never see a
// partially written document, but two processes (or goroutines) appending at the
// same time can lose one of the writes. The log assumes a single writer.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/store"
	"github.com/natefinch/atomic"
)

const (
	filePerms = 0o644
	dirPerms  = 0o755
)

var chmod = os.Chmod

// Log is a file-backed store.RecordLog.
type Log[T any] struct {
	path string
}

var _ store.CommentStore = (*Log[string])(nil)

// New returns a log stored at path. The file is created on the first append.
func New[T any](path string) *Log[T] {
	return &Log[T]{path: path}
}

// Path returns the file backing the log.
func (l *Log[T]) Path() string {
	return l.path
}

// ReadAll implements store.RecordLog. A missing file is an empty log.
func (l *Log[T]) ReadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record log %s: %w", l.path, err)
	}

	return decode[T](l.path, data)
}

// Check reports whether the log can be read and decoded.
func (l *Log[T]) Check(ctx context.Context) error {
	_, err := l.ReadAll(ctx)
	return err
}

// Append implements store.RecordLog.
func (l *Log[T]) Append(ctx context.Context, record T) error {
	records, err := l.ReadAll(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)

	buf, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode record log: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	mkdirErr := os.MkdirAll(filepath.Dir(l.path), dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("failed to create record log directory: %w", mkdirErr)
	}

	writeErr := atomic.WriteFile(l.path, bytes.NewReader(buf))
	if writeErr != nil {
		return fmt.Errorf("failed to write record log %s: %w", l.path, writeErr)
	}

	// atomic.WriteFile leaves the temp file's mode on the result. The record is
	// already durable here, so a failed chmod must not fail the append.
	if chmodErr := chmod(l.path, filePerms); chmodErr != nil {
		logger.GetLogger().Warnw("Failed to set record log permissions", "path", l.path, "error", chmodErr)
	}

	return nil
}

func decode[T any](path string, data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s: document is not a JSON array", store.ErrCorrupt, path)
	}

	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrCorrupt, path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
