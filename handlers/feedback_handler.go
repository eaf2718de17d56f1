package handlers

import (
	"net/http"
	"time"

	"github.com/NomadCrew/comment-board/internal/cache"
	"github.com/NomadCrew/comment-board/internal/mutation"
	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/store"
	"github.com/NomadCrew/comment-board/types"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback submission endpoints.
type FeedbackHandler struct {
	submitter Submitter
	feedback  store.FeedbackStore
	registry  *cache.Registry
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(submitter Submitter, feedback store.FeedbackStore, registry *cache.Registry) *FeedbackHandler {
	return &FeedbackHandler{
		submitter: submitter,
		feedback:  feedback,
		registry:  registry,
	}
}

type feedbackForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Feedback string `form:"feedback" json:"feedback"`
}

// FeedbackEntry is a stored submission as listed by the API. The submitter's
// address is masked.
type FeedbackEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Feedback    string    `json:"feedback"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitFeedback accepts the name, email and feedback fields.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var form feedbackForm
	if !bindOrError(c, &form) {
		return
	}

	result := h.submitter.SubmitFeedback(c.Request.Context(), mutation.FeedbackCommand{
		Name:     form.Name,
		Email:    form.Email,
		Feedback: form.Feedback,
	})
	respondMutation(c, result)
}

// ListFeedback returns stored feedback in submission order.
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	entries, err := cache.Read(c.Request.Context(), h.registry, cache.TagFeedback, h.feedback.ReadAll)
	if err != nil {
		_ = c.Error(readError(err))
		return
	}

	c.JSON(http.StatusOK, toFeedbackEntries(entries))
}

func toFeedbackEntries(entries []types.Feedback) []FeedbackEntry {
	out := make([]FeedbackEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FeedbackEntry{
			ID:          e.ID,
			Name:        e.Name,
			Email:       logger.MaskEmail(e.Email),
			Feedback:    e.Feedback,
			SubmittedAt: e.SubmittedAt,
		})
	}
	return out
}
