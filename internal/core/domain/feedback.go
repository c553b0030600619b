package domain

import (
	"errors"
	"time"
)

const (
	FeedbackMinLen   = 10
	FeedbackMaxLen   = 500
	SenderNameMaxLen = 50

	// AnonymousSender is the sender name recorded when the submitter
	// withholds or omits their identity.
	AnonymousSender = "Anonymous"
)

var ErrFeedbackNotFound = errors.New("feedback not found")
var ErrMessageTooShort = errors.New("feedback message must be at least 10 characters long")
var ErrMessageTooLong = errors.New("feedback message cannot exceed 500 characters")

// Feedback is a message left for a user, anonymously or attributed.
type Feedback struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email,omitempty"`
	IsAnonymous bool      `json:"is_anonymous"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
