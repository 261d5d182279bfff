package ports

import (
	"context"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Create must
// persist the order header and all its items atomically.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// FindByIdempotencyKey retrieves a previous order created by userID
	// under the same key, or domain.ErrOrderNotFound.
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// ListRecent returns the newest orders across all users, for staff review.
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// ReviewRepository persists reviews and feedback submissions.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	CreateFeedback(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
}
