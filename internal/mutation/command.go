package mutation

import "github.com/NomadCrew/comment-board/internal/validation"

// CommentCommand is a simple comment submission built from the "comment" form field.
type CommentCommand struct {
	Comment string
}

func (c CommentCommand) values() map[string]string {
	return map[string]string{
		validation.FieldComment: c.Comment,
	}
}

// FeedbackCommand is a feedback form submission.
type FeedbackCommand struct {
	Name     string
	Email    string
	Feedback string
}

func (c FeedbackCommand) values() map[string]string {
	return map[string]string{
		validation.FieldName:     c.Name,
		validation.FieldEmail:    c.Email,
		validation.FieldFeedback: c.Feedback,
	}
}
