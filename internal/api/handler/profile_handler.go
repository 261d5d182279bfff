package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// ProfileHandler serves the authenticated user's own record.
type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

type profileResponse struct {
	ID              string `json:"id"`
	TelegramID      int64  `json:"telegram_id"`
	Username        string `json:"username,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
}

// Me returns the caller's profile.
//
// @Summary      Current user profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		ID:              user.ID,
		TelegramID:      user.TelegramID,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		Email:           user.Email,
		DeliveryAddress: user.DeliveryAddress,
	})
}

type updateProfileRequest struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"delivery_address"`
}

// Update stores the caller's contact fields. Blank values clear them.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Contact fields"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/profile [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_payload"})
	}

	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	addr := strings.TrimSpace(req.DeliveryAddress)
	if email != "" && !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_email"})
	}
	if phone != "" && len(phone) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid_phone"})
	}

	if _, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, ports.ProfileUpdateInput{
		Email:           email,
		Phone:           phone,
		DeliveryAddress: addr,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
