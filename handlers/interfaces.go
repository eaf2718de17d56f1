package handlers

import (
	"context"

	"github.com/NomadCrew/comment-board/internal/mutation"
	"github.com/NomadCrew/comment-board/types"
)

// Submitter runs submissions through validation, persistence and invalidation.
// *mutation.Handler implements it.
type Submitter interface {
	SubmitComment(ctx context.Context, cmd mutation.CommentCommand) types.MutationResult
	SubmitFeedback(ctx context.Context, cmd mutation.FeedbackCommand) types.MutationResult
}

var _ Submitter = (*mutation.Handler)(nil)
