package handlers

import (
	"context"
	"net/http"

	"github.com/NomadCrew/comment-board/internal/cache"
	"github.com/NomadCrew/comment-board/internal/mutation"
	"github.com/NomadCrew/comment-board/internal/search"
	"github.com/NomadCrew/comment-board/store"
	"github.com/gin-gonic/gin"
)

// CommentHandler serves the comment list, comment search and comment submission.
type CommentHandler struct {
	submitter Submitter
	comments  store.CommentStore
	registry  *cache.Registry
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(submitter Submitter, comments store.CommentStore, registry *cache.Registry) *CommentHandler {
	return &CommentHandler{
		submitter: submitter,
		comments:  comments,
		registry:  registry,
	}
}

type commentForm struct {
	Comment string `form:"comment" json:"comment"`
}

// ListComments returns every comment in insertion order.
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.readComments(c.Request.Context())
	if err != nil {
		_ = c.Error(readError(err))
		return
	}
	c.JSON(http.StatusOK, comments)
}

// SearchComments returns the comments containing the query parameter, ignoring
// case. A missing or empty query returns every comment.
func (h *CommentHandler) SearchComments(c *gin.Context) {
	comments, err := h.readComments(c.Request.Context())
	if err != nil {
		_ = c.Error(readError(err))
		return
	}
	c.JSON(http.StatusOK, search.Filter(comments, c.Query("query")))
}

// SubmitComment accepts the "comment" field and responds with the mutation result.
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	var form commentForm
	if !bindOrError(c, &form) {
		return
	}

	result := h.submitter.SubmitComment(c.Request.Context(), mutation.CommentCommand{
		Comment: form.Comment,
	})
	respondMutation(c, result)
}

func (h *CommentHandler) readComments(ctx context.Context) ([]string, error) {
	return cache.Read(ctx, h.registry, cache.TagComments, h.comments.ReadAll)
}
