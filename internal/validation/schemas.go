package validation

// Form field names.
const (
	FieldComment  = "comment"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldFeedback = "feedback"
)

const (
	maxCommentLength  = 1000
	minNameLength     = 2
	maxNameLength     = 100
	minFeedbackLength = 10
	maxFeedbackLength = 1000
)

// CommentSchema validates the simple comment form.
func CommentSchema() Schema {
	return Schema{
		{
			Name: FieldComment,
			Constraints: []Constraint{
				Required("Comment is required"),
				MaxLen(maxCommentLength, "Comment must be at most 1000 characters"),
			},
		},
	}
}

// FeedbackSchema validates the feedback form.
func FeedbackSchema() Schema {
	return Schema{
		{
			Name: FieldName,
			Constraints: []Constraint{
				Required("Name is required"),
				MinLen(minNameLength, "Name must be at least 2 characters"),
				MaxLen(maxNameLength, "Name must be at most 100 characters"),
			},
		},
		{
			Name: FieldEmail,
			Constraints: []Constraint{
				Required("Email is required"),
				Email("Invalid email address"),
			},
		},
		{
			Name: FieldFeedback,
			Constraints: []Constraint{
				Required("Feedback is required"),
				MinLen(minFeedbackLength, "Feedback must be at least 10 characters"),
				MaxLen(maxFeedbackLength, "Feedback must be at most 1000 characters"),
			},
		},
	}
}
