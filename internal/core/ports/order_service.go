package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// OrderLineInput is one cart line as submitted by the client. The unit
// price is deliberately absent: it is always read from the catalog at
// creation time.
type OrderLineInput struct {
	Kind     string
	ItemID   string
	Quantity decimal.Decimal
}

// CreateOrderInput carries everything needed to materialize an order.
type CreateOrderInput struct {
	UserID         string
	Items          []OrderLineInput
	Comment        string
	DeliveryPrice  decimal.Decimal
	IdempotencyKey string
}

// OrderResult is returned after creating (or replaying) an order.
type OrderResult struct {
	OrderID string
	Total   decimal.Decimal
	// AlreadyExisted is true when the Idempotency-Key matched a previous order.
	AlreadyExisted bool
}

// OrderService prices and persists orders.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*OrderResult, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// ReviewInput is a review submission.
type ReviewInput struct {
	UserID     string
	TargetKind string
	TargetID   string
	Rating     int
	Text       string
}

// FeedbackInput is a contact-form submission.
type FeedbackInput struct {
	UserID  string
	Name    string
	Phone   string
	Email   string
	Subject string
	Message string
}

// ReviewService validates and stores reviews and feedback.
type ReviewService interface {
	SubmitReview(ctx context.Context, in ReviewInput) (*domain.Review, error)
	SubmitFeedback(ctx context.Context, in FeedbackInput) (*domain.Feedback, error)
}
