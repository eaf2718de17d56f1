// Package store defines the record stores the board persists to.
//
// A record log is append-only: records are never edited or deleted and ReadAll
// returns them in insertion order.
package store

import (
	"context"

	"github.com/NomadCrew/comment-board/types"
)

// RecordLog is a durable append-only list of records.
type RecordLog[T any] interface {
	// Append durably adds record to the end of the log.
	Append(ctx context.Context, record T) error
	// ReadAll returns every record in insertion order. A corrupt log is an
	// error wrapping ErrCorrupt, never an empty result.
	ReadAll(ctx context.Context) ([]T, error)
}

// CommentStore holds the comment log.
type CommentStore = RecordLog[string]

// FeedbackStore holds accepted feedback submissions.
type FeedbackStore = RecordLog[types.Feedback]
