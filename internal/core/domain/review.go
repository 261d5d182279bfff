package domain

import (
	"errors"
	"time"
)

var ErrInvalidReview = errors.New("invalid review")
var ErrInvalidFeedback = errors.New("invalid feedback")

// Review is a user rating of a product or service. New reviews start
// unmoderated and are hidden until approved.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TargetKind  ItemKind  `json:"target_type"`
	TargetID    string    `json:"target_id"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text"`
	IsModerated bool      `json:"is_moderated"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feedback is a free-form contact request submitted from the mini-app.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
