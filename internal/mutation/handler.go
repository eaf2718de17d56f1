// Package mutation runs a submission through validate, persist and invalidate.
//
// Validation failures are returned as data and never touch the store. A store
// failure after validation passed is a distinct outcome so the client can offer a
// retry instead of asking for different input. Cached reads are invalidated only
// after the append has returned successfully.
package mutation

import (
	"context"
	"time"

	apperrors "github.com/NomadCrew/comment-board/errors"
	"github.com/NomadCrew/comment-board/internal/cache"
	"github.com/NomadCrew/comment-board/internal/validation"
	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/store"
	"github.com/NomadCrew/comment-board/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	kindComment  = "comment"
	kindFeedback = "feedback"

	retryReason = "Your submission could not be saved. Please try again."
)

// Invalidator marks cached reads for a tag stale.
type Invalidator interface {
	Invalidate(ctx context.Context, tag string) error
}

// Handler executes submissions.
type Handler struct {
	engine      *validation.Engine
	comments    store.CommentStore
	feedback    store.FeedbackStore
	invalidator Invalidator
	log         *zap.SugaredLogger
	now         func() time.Time
}

// NewHandler wires a Handler.
func NewHandler(comments store.CommentStore, feedback store.FeedbackStore, invalidator Invalidator) *Handler {
	return &Handler{
		engine:      validation.NewEngine(),
		comments:    comments,
		feedback:    feedback,
		invalidator: invalidator,
		log:         logger.GetLogger().Named("mutation"),
		now:         time.Now,
	}
}

// SubmitComment validates and appends a comment, then invalidates the comments tag.
func (h *Handler) SubmitComment(ctx context.Context, cmd CommentCommand) types.MutationResult {
	return h.run(ctx, kindComment, validation.CommentSchema(), cmd.values(),
		func(ctx context.Context, data map[string]string) error {
			return h.comments.Append(ctx, data[validation.FieldComment])
		},
		cache.TagComments,
	)
}

// SubmitFeedback validates and stores a feedback submission, then invalidates the
// feedback tag.
func (h *Handler) SubmitFeedback(ctx context.Context, cmd FeedbackCommand) types.MutationResult {
	return h.run(ctx, kindFeedback, validation.FeedbackSchema(), cmd.values(),
		func(ctx context.Context, data map[string]string) error {
			return h.feedback.Append(ctx, types.Feedback{
				ID:          uuid.New().String(),
				Name:        data[validation.FieldName],
				Email:       data[validation.FieldEmail],
				Feedback:    data[validation.FieldFeedback],
				SubmittedAt: h.now().UTC(),
			})
		},
		cache.TagFeedback,
	)
}

func (h *Handler) run(
	ctx context.Context,
	kind string,
	schema validation.Schema,
	raw map[string]string,
	persist func(context.Context, map[string]string) error,
	tags ...string,
) types.MutationResult {
	result := h.engine.Validate(schema, raw)
	if !result.Valid() {
		mutationCounter().WithLabelValues(kind, string(types.MutationInvalid)).Inc()
		h.log.Debugw("Submission rejected", "kind", kind, "fields", len(result.Errors))
		return types.Invalid(result.Errors, result.Values)
	}

	if err := persist(ctx, result.Data); err != nil {
		mutationCounter().WithLabelValues(kind, string(types.MutationFailed)).Inc()
		h.log.Errorw("Submission not persisted", "kind", kind, "error_type", apperrors.PersistenceError, "error", err)
		return types.Failed(retryReason)
	}

	for _, tag := range tags {
		// The record is durable at this point; a lost signal only risks stale reads.
		if err := h.invalidator.Invalidate(ctx, tag); err != nil {
			h.log.Errorw("Cache invalidation failed after commit", "kind", kind, "tag", tag, "error", err)
		}
	}

	mutationCounter().WithLabelValues(kind, string(types.MutationCommitted)).Inc()
	if kind == kindFeedback {
		h.log.Infow("Feedback stored", "email", logger.MaskEmail(result.Data[validation.FieldEmail]))
	}
	return types.Committed()
}
