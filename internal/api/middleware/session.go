package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/api/metrics"
	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// Cookie slot names. The access cookie authorizes individual requests;
// the refresh cookie only mints replacements.
const (
	AccessCookie  = "wg_at"
	RefreshCookie = "wg_rt"
)

// CookieOptions are the shared attributes of both auth cookies. SameSite
// is always None so the cookies survive the embedded WebView.
type CookieOptions struct {
	Domain string
	Secure bool
}

// Session authenticates each request from the auth cookies and attaches
// the resolved user to the echo context before the handler runs.
//
// Per request the state machine is:
//  1. A valid, unexpired access token resolves the user directly.
//  2. Otherwise a valid refresh token resolves the user and a brand-new
//     pair replaces both cookies (lifetimes stay synchronized).
//  3. Otherwise the request is rejected with 401 and no identity attached.
//
// Handlers never decode tokens themselves.
func Session(tokens ports.TokenService, users ports.UserRepository, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var user *domain.User
			var fresh *ports.TokenPair

			if raw := cookieValue(c, AccessCookie); raw != "" {
				// Any access failure (expired, malformed, wrong typ)
				// falls through to the refresh path.
				if claims, err := tokens.ParseAccess(raw); err == nil {
					u, err := users.FindByID(ctx, claims.UserID)
					if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
						return err
					}
					user = u
				}
			}

			if user == nil {
				if raw := cookieValue(c, RefreshCookie); raw != "" {
					if claims, err := tokens.ParseRefresh(raw); err == nil {
						u, err := users.FindByID(ctx, claims.UserID)
						if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
							return err
						}
						if u != nil {
							pair, err := tokens.IssuePair(u.ID, string(u.Role))
							if err != nil {
								return err
							}
							user, fresh = u, pair
						}
					}
				}
			}

			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("role", string(user.Role))

			if fresh != nil {
				metrics.TokenRefreshTotal.Inc()
				SetAuthCookies(c, fresh, opts)
			}
			return next(c)
		}
	}
}

// SetAuthCookies writes both tokens to the response. Rotation always
// replaces the pair together.
func SetAuthCookies(c echo.Context, pair *ports.TokenPair, opts CookieOptions) {
	c.SetCookie(authCookie(AccessCookie, pair.AccessToken, opts))
	c.SetCookie(authCookie(RefreshCookie, pair.RefreshToken, opts))
}

// ClearAuthCookies expires both cookie slots.
func ClearAuthCookies(c echo.Context, opts CookieOptions) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		ck := authCookie(name, "", opts)
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}

func authCookie(name, value string, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   opts.Domain,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
