package store

import "errors"

// Error Handling Guidelines:
// - Stores: use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: use apperrors.* functions for HTTP-appropriate errors

var (
	// ErrCorrupt indicates the stored document exists but cannot be decoded.
	ErrCorrupt = errors.New("record log is corrupt")
)
