package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

const minReviewLen = 5

// ReviewService validates and stores reviews and feedback.
type ReviewService struct {
	repo ports.ReviewRepository
	log  zerolog.Logger
}

func NewReviewService(repo ports.ReviewRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, log: log}
}

// SubmitReview stores a rating for a product or service. New reviews are
// unmoderated until an admin approves them.
func (s *ReviewService) SubmitReview(ctx context.Context, in ports.ReviewInput) (*domain.Review, error) {
	kind := domain.ItemKind(in.TargetKind)
	if !kind.IsValid() || in.TargetID == "" {
		return nil, fmt.Errorf("bad target: %w", domain.ErrInvalidReview)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("rating out of range: %w", domain.ErrInvalidReview)
	}
	text := strings.TrimSpace(in.Text)
	if len([]rune(text)) < minReviewLen {
		return nil, fmt.Errorf("text too short: %w", domain.ErrInvalidReview)
	}

	review, err := s.repo.CreateReview(ctx, &domain.Review{
		UserID:      in.UserID,
		TargetKind:  kind,
		TargetID:    in.TargetID,
		Rating:      in.Rating,
		Text:        text,
		IsModerated: false,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("review_id", review.ID).Str("target", in.TargetID).Int("rating", in.Rating).Msg("review submitted")
	return review, nil
}

// SubmitFeedback stores a contact-form message. Name and message are required.
func (s *ReviewService) SubmitFeedback(ctx context.Context, in ports.FeedbackInput) (*domain.Feedback, error) {
	name := strings.TrimSpace(in.Name)
	message := strings.TrimSpace(in.Message)
	if name == "" || message == "" {
		return nil, domain.ErrInvalidFeedback
	}

	fb, err := s.repo.CreateFeedback(ctx, &domain.Feedback{
		UserID:    in.UserID,
		Name:      name,
		Phone:     in.Phone,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   message,
		Status:    "new",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("feedback_id", fb.ID).Msg("feedback submitted")
	return fb, nil
}
