package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

const authTestBotToken = "123456:ABC-test-token"

type stubUserRepo struct {
	users       map[int64]*domain.User
	nextID      int
	createCalls int
	updateCalls int
	findErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*domain.User{}}
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[telegramID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.createCalls++
	r.nextID++
	stored := cloneUser(user)
	stored.ID = "u-" + strconv.Itoa(r.nextID)
	r.users[stored.TelegramID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.updateCalls++
	r.users[user.TelegramID] = cloneUser(user)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// signAuthPayload mirrors the client's HMAC chain so tests can mint
// payloads that pass verification.
func signAuthPayload(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func initDataFor(t *testing.T, telegramID int64, username, firstName string) string {
	t.Helper()
	return signAuthPayload(t, authTestBotToken, map[string]string{
		"user":      fmt.Sprintf(`{"id":%d,"username":%q,"first_name":%q}`, telegramID, username, firstName),
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	})
}

func newAuthService(repo *stubUserRepo) *AuthService {
	tokens := NewTokenService("test-secret", 15*time.Minute, 30*24*time.Hour)
	return NewAuthService(repo, tokens, authTestBotToken, zerolog.Nop())
}

func TestAuthService_LoginCreatesUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	user, pair, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice"))
	if err != nil {
		t.Fatalf("LoginWithInitData returned error: %v", err)
	}
	if user.TelegramID != 42 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("new users must default to client role, got %q", user.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected a token pair, got %+v", pair)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create, got %d", repo.createCalls)
	}
}

func TestAuthService_LoginIsIdempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	first, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice"))
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice"))
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("same identity resolved to different users: %q vs %q", first.ID, second.ID)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create, got %d", repo.createCalls)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("unchanged profile must not trigger an update, got %d", repo.updateCalls)
	}
}

func TestAuthService_LoginRefreshesProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	if _, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice")); err != nil {
		t.Fatalf("first login: %v", err)
	}

	user, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice_new", "Alice"))
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if user.Username != "alice_new" {
		t.Fatalf("expected refreshed username, got %q", user.Username)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected one update, got %d", repo.updateCalls)
	}
}

func TestAuthService_BlankNeverOverwrites(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	if _, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice")); err != nil {
		t.Fatalf("first login: %v", err)
	}

	// A payload without a username must keep the stored one.
	user, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "", "Alice"))
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("blank username overwrote stored value: %q", user.Username)
	}
}

func TestAuthService_InvalidInitData(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	cases := map[string]string{
		"garbage":      "not-valid-init-data",
		"bad signer":   signAuthPayload(t, "other-token", map[string]string{"user": `{"id":42}`}),
		"missing user": signAuthPayload(t, authTestBotToken, map[string]string{"query_id": "abc"}),
		"zero user id": signAuthPayload(t, authTestBotToken, map[string]string{"user": `{"id":0}`}),
	}
	for name, raw := range cases {
		if _, _, err := svc.LoginWithInitData(context.Background(), raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
	if repo.createCalls != 0 {
		t.Fatalf("failed logins must not create users, got %d", repo.createCalls)
	}
}

func TestAuthService_StorageErrorPropagates(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newAuthService(repo)

	_, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice"))
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("storage failures must not masquerade as unauthorized, got %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		TelegramID: 77,
		Username:   "bob",
		FirstName:  "Bob",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.TelegramID != 77 || user.Role != domain.RoleClient {
		t.Fatalf("unexpected user: %+v", user)
	}

	again, err := svc.Register(context.Background(), ports.RegisterInput{TelegramID: 77, Username: "bob"})
	if err != nil {
		t.Fatalf("second Register returned error: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("re-register created a new user: %q vs %q", again.ID, user.ID)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	user, _, err := svc.LoginWithInitData(context.Background(), initDataFor(t, 42, "alice", "Alice"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{
		Email:           "alice@example.com",
		Phone:           "+15551234",
		DeliveryAddress: "1 Main St",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Email != "alice@example.com" || updated.Phone != "+15551234" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	// Blanks clear fields here, unlike the Telegram profile refresh.
	cleared, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdateInput{})
	if err != nil {
		t.Fatalf("second UpdateProfile returned error: %v", err)
	}
	if cleared.Email != "" || cleared.Phone != "" || cleared.DeliveryAddress != "" {
		t.Fatalf("expected cleared profile, got %+v", cleared)
	}

	if _, err := svc.UpdateProfile(context.Background(), "missing", ports.ProfileUpdateInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
