package ports

import (
	"context"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update persists the mutable profile fields (username, first_name,
	// last_name, phone, email, delivery_address). It never touches ID,
	// TelegramID or Role.
	Update(ctx context.Context, user *domain.User) error
}
