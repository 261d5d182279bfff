package ports

import (
	"context"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// RegisterInput is the trusted pre-seed payload sent by the bot on /start.
type RegisterInput struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// ProfileUpdateInput carries the user-editable contact fields. Blank
// values clear the corresponding field.
type ProfileUpdateInput struct {
	Email           string
	Phone           string
	DeliveryAddress string
}

// AuthService owns login, identity resolution and profile maintenance.
type AuthService interface {
	// LoginWithInitData verifies the raw initData string, resolves (or
	// creates) the user and mints a token pair. Every verification
	// failure surfaces as domain.ErrUnauthorized.
	LoginWithInitData(ctx context.Context, initData string) (*domain.User, *TokenPair, error)
	// Register upserts a user record from a trusted backend call,
	// bypassing signature verification.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*domain.User, error)
}
