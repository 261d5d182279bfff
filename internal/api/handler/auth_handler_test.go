package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/api/middleware"
	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

type stubAuthService struct {
	lastInitData string
	user         *domain.User
	pair         *ports.TokenPair
	err          error

	registered *ports.RegisterInput
}

func (s *stubAuthService) LoginWithInitData(ctx context.Context, initData string) (*domain.User, *ports.TokenPair, error) {
	s.lastInitData = initData
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.user, s.pair, nil
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	s.registered = &in
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdateInput) (*domain.User, error) {
	return s.user, nil
}

func okAuthStub() *stubAuthService {
	return &stubAuthService{
		user: &domain.User{ID: "u-1", TelegramID: 42, Username: "alice", Role: domain.RoleClient},
		pair: &ports.TokenPair{AccessToken: "at", RefreshToken: "rt"},
	}
}

func authRequest(method, target, body string, header map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	stub := okAuthStub()
	h := NewAuthHandler(stub, middleware.CookieOptions{Domain: "example.com", Secure: true})

	c, rec := authRequest(http.MethodPost, "/api/telegram/auth", `{"initData":"signed-payload"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastInitData != "signed-payload" {
		t.Fatalf("service received %q", stub.lastInitData)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"success":true`) || !strings.Contains(body, `"telegram_id":42`) {
		t.Fatalf("unexpected body: %s", body)
	}

	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	if !names[middleware.AccessCookie] || !names[middleware.RefreshCookie] {
		t.Fatalf("expected both auth cookies, got %v", cookies)
	}
}

func TestAuthHandler_LoginFromHeader(t *testing.T) {
	stub := okAuthStub()
	h := NewAuthHandler(stub, middleware.CookieOptions{})

	c, _ := authRequest(http.MethodPost, "/api/telegram/auth", "", map[string]string{
		"X-Telegram-Init-Data": "header-payload",
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if stub.lastInitData != "header-payload" {
		t.Fatalf("service received %q", stub.lastInitData)
	}
}

func TestAuthHandler_LoginFromQuery(t *testing.T) {
	stub := okAuthStub()
	h := NewAuthHandler(stub, middleware.CookieOptions{})

	c, _ := authRequest(http.MethodPost, "/api/telegram/auth?tgWebAppData=query-payload", "", nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if stub.lastInitData != "query-payload" {
		t.Fatalf("service received %q", stub.lastInitData)
	}
}

func TestAuthHandler_LoginUnauthorized(t *testing.T) {
	stub := &stubAuthService{err: domain.ErrUnauthorized}
	h := NewAuthHandler(stub, middleware.CookieOptions{})

	c, rec := authRequest(http.MethodPost, "/api/telegram/auth", `{"initData":"bad"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"not_authorized"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set cookies")
	}
}

func TestAuthHandler_Register(t *testing.T) {
	stub := okAuthStub()
	h := NewAuthHandler(stub, middleware.CookieOptions{})

	c, rec := authRequest(http.MethodPost, "/api/telegram/register", `{"telegram_id":42,"username":"alice"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.registered == nil || stub.registered.TelegramID != 42 {
		t.Fatalf("unexpected register input: %+v", stub.registered)
	}
}

func TestAuthHandler_RegisterRequiresTelegramID(t *testing.T) {
	stub := okAuthStub()
	h := NewAuthHandler(stub, middleware.CookieOptions{})

	c, rec := authRequest(http.MethodPost, "/api/telegram/register", `{"username":"alice"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.registered != nil {
		t.Fatalf("service must not be called, got %+v", stub.registered)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(okAuthStub(), middleware.CookieOptions{Domain: "example.com", Secure: true})

	c, rec := authRequest(http.MethodPost, "/api/logout", "", nil)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Value != "" || ck.MaxAge != -1 {
			t.Fatalf("cookie %s not expired: %+v", ck.Name, ck)
		}
	}
}
