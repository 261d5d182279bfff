package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
	"github.com/winstgrad/miniapp-api/internal/telegram"
)

// AuthService implements Mini-App login: initData verification, identity
// resolution and token issuance.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	botToken string
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, botToken string, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, botToken: botToken, log: log}
}

// LoginWithInitData verifies the signed payload and turns it into a user
// plus a fresh token pair. Every verification failure collapses into
// domain.ErrUnauthorized so callers cannot tell which check failed.
func (s *AuthService) LoginWithInitData(ctx context.Context, initData string) (*domain.User, *ports.TokenPair, error) {
	payload, err := telegram.Verify(initData, s.botToken, time.Now())
	if err != nil {
		// The detailed reason stays in the logs only.
		s.log.Warn().Err(err).Msg("initData verification failed")
		return nil, nil, domain.ErrUnauthorized
	}
	if payload.User.ID == 0 {
		s.log.Warn().Msg("initData user has no id")
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := s.resolve(ctx, payload.User)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info().Int64("telegram_id", user.TelegramID).Str("user_id", user.ID).Msg("user logged in")
	return user, pair, nil
}

// resolve finds or creates the user record for a verified identity.
// Profile fields are refreshed with the newly observed values, but a
// blank value never overwrites an existing one. Resolving the same
// identity twice is idempotent.
func (s *AuthService) resolve(ctx context.Context, ident telegram.Identity) (*domain.User, error) {
	user, err := s.users.FindByTelegramID(ctx, ident.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		created, err := s.users.Create(ctx, &domain.User{
			TelegramID: ident.ID,
			Username:   ident.Username,
			FirstName:  ident.FirstName,
			LastName:   ident.LastName,
			Role:       domain.RoleClient,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	changed := false
	if ident.Username != "" && ident.Username != user.Username {
		user.Username = ident.Username
		changed = true
	}
	if ident.FirstName != "" && ident.FirstName != user.FirstName {
		user.FirstName = ident.FirstName
		changed = true
	}
	if ident.LastName != "" && ident.LastName != user.LastName {
		user.LastName = ident.LastName
		changed = true
	}
	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("refresh profile: %w", err)
		}
	}
	return user, nil
}

// Register upserts a user from a trusted backend-to-backend call (the bot
// pre-seeds users on /start). No signature verification happens here.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.resolve(ctx, telegram.Identity{
		ID:        in.TelegramID,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

// UpdateProfile stores the user-editable contact fields. Unlike the
// Telegram profile refresh, blanks are meaningful here and clear fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Email = in.Email
	user.Phone = in.Phone
	user.DeliveryAddress = in.DeliveryAddress
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
