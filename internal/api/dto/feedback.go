package dto

// FeedbackKind classifies an operation outcome envelope.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackInfo    FeedbackKind = "info"
	FeedbackWarning FeedbackKind = "warning"
)

// Feedback is the uniform outcome message returned alongside data.
type Feedback struct {
	Kind    FeedbackKind `json:"type"`
	Message string       `json:"message"`
}

// SuccessFeedback builds a success envelope.
func SuccessFeedback(message string) Feedback {
	return Feedback{Kind: FeedbackSuccess, Message: message}
}

// WarningFeedback builds a warning envelope.
func WarningFeedback(message string) Feedback {
	return Feedback{Kind: FeedbackWarning, Message: message}
}
