package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

type stubReviewRepo struct {
	reviews  []*domain.Review
	feedback []*domain.Feedback
}

func (r *stubReviewRepo) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	stored := *review
	stored.ID = "r-1"
	r.reviews = append(r.reviews, &stored)
	return &stored, nil
}

func (r *stubReviewRepo) CreateFeedback(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	stored := *fb
	stored.ID = "f-1"
	r.feedback = append(r.feedback, &stored)
	return &stored, nil
}

func TestReviewService_SubmitReview(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := NewReviewService(repo, zerolog.Nop())

	review, err := svc.SubmitReview(context.Background(), ports.ReviewInput{
		UserID:     "u-1",
		TargetKind: "product",
		TargetID:   "p1",
		Rating:     5,
		Text:       "  great stuff  ",
	})
	if err != nil {
		t.Fatalf("SubmitReview returned error: %v", err)
	}
	if review.IsModerated {
		t.Fatalf("new reviews must start unmoderated")
	}
	if review.Text != "great stuff" {
		t.Fatalf("expected trimmed text, got %q", review.Text)
	}
}

func TestReviewService_RejectsBadReviews(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := NewReviewService(repo, zerolog.Nop())

	cases := map[string]ports.ReviewInput{
		"bad kind":       {TargetKind: "category", TargetID: "p1", Rating: 3, Text: "long enough"},
		"missing target": {TargetKind: "product", Rating: 3, Text: "long enough"},
		"rating low":     {TargetKind: "product", TargetID: "p1", Rating: 0, Text: "long enough"},
		"rating high":    {TargetKind: "product", TargetID: "p1", Rating: 6, Text: "long enough"},
		"text too short": {TargetKind: "product", TargetID: "p1", Rating: 3, Text: "hey "},
	}
	for name, in := range cases {
		if _, err := svc.SubmitReview(context.Background(), in); !errors.Is(err, domain.ErrInvalidReview) {
			t.Fatalf("%s: expected ErrInvalidReview, got %v", name, err)
		}
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("invalid reviews must not be stored, got %d", len(repo.reviews))
	}
}

func TestReviewService_SubmitFeedback(t *testing.T) {
	repo := &stubReviewRepo{}
	svc := NewReviewService(repo, zerolog.Nop())

	fb, err := svc.SubmitFeedback(context.Background(), ports.FeedbackInput{
		Name:    "Alice",
		Message: "please call me back",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback returned error: %v", err)
	}
	if fb.Status != "new" {
		t.Fatalf("unexpected status: %q", fb.Status)
	}

	for name, in := range map[string]ports.FeedbackInput{
		"no name":    {Message: "hello"},
		"no message": {Name: "Alice"},
		"whitespace": {Name: "  ", Message: " "},
	} {
		if _, err := svc.SubmitFeedback(context.Background(), in); !errors.Is(err, domain.ErrInvalidFeedback) {
			t.Fatalf("%s: expected ErrInvalidFeedback, got %v", name, err)
		}
	}
}
