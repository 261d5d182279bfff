package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/api/metrics"
	"github.com/winstgrad/miniapp-api/internal/api/middleware"
	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// AuthHandler handles Mini-App login, the trusted bot pre-seed and logout.
type AuthHandler struct {
	authService ports.AuthService
	cookies     middleware.CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookies middleware.CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type loginRequest struct {
	InitData string `json:"initData"`
}

type userSummary struct {
	ID         string `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    userSummary `json:"user"`
}

type authErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Login authenticates a Mini-App session from Telegram initData.
//
// The payload is accepted from the JSON body, the X-Telegram-Init-Data
// header, or the tgWebAppData/initData query parameters — whichever is
// present first — and treated as an opaque string.
//
// @Summary      Login with Telegram initData
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "initData payload"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  authErrorResponse
// @Router       /api/telegram/auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	_ = c.Bind(&req)

	initData := req.InitData
	if initData == "" {
		initData = c.Request().Header.Get("X-Telegram-Init-Data")
	}
	if initData == "" {
		initData = c.QueryParam("tgWebAppData")
	}
	if initData == "" {
		initData = c.QueryParam("initData")
	}

	user, pair, err := h.authService.LoginWithInitData(c.Request().Context(), initData)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, authErrorResponse{Error: "not_authorized"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	middleware.SetAuthCookies(c, pair, h.cookies)
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		User: userSummary{
			ID:         user.ID,
			TelegramID: user.TelegramID,
			Username:   user.Username,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
		},
	})
}

type registerRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}

// Register upserts a user record ahead of the first Mini-App launch.
// Intended only for the trusted bot backend; it bypasses signature
// verification by design.
//
// @Summary      Pre-seed a user (bot backend only)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/telegram/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid_payload"})
	}
	if req.TelegramID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "telegram_id required"})
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{Success: true, UserID: user.ID})
}

// Logout clears both auth cookies. The tokens themselves stay valid
// until expiry; there is no server-side revocation.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookies(c, h.cookies)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
