package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// ReviewHandler handles review and feedback submissions.
type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type reviewRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=product service"`
	TargetID   string `json:"target_id"   validate:"required"`
	Rating     int    `json:"rating"      validate:"required,min=1,max=5"`
	Text       string `json:"text"        validate:"required,min=5"`
}

// SubmitReview stores a product or service rating.
//
// @Summary      Submit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      reviewRequest  true  "Review"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/reviews [post]
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
	}

	_, err = h.reviewService.SubmitReview(c.Request().Context(), ports.ReviewInput{
		UserID:     user.ID,
		TargetKind: req.TargetType,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Text:       req.Text,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReview) {
			return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_review"})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

type feedbackRequest struct {
	Name    string `json:"name"    validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// SubmitFeedback stores a contact-form message.
//
// @Summary      Submit feedback
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      feedbackRequest  true  "Feedback"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/feedback [post]
func (h *ReviewHandler) SubmitFeedback(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
	}

	_, err = h.reviewService.SubmitFeedback(c.Request().Context(), ports.FeedbackInput{
		UserID:  user.ID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFeedback) {
			return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_feedback"})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
