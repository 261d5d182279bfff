package telegram

import (
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
)

const testBotToken = "123456:ABC-test-token"

// signInitData builds a correctly signed initData string the way the
// Telegram client would.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
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

func validFields(now time.Time) map[string]string {
	return map[string]string{
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      `{"id":42,"username":"alice","first_name":"Alice","last_name":"Smith","language_code":"en","is_premium":true}`,
		"auth_date": strconv.FormatInt(now.Unix(), 10),
	}
}

func TestVerify_Valid(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, testBotToken, validFields(now))

	data, err := Verify(raw, testBotToken, now)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if data.User.ID != 42 {
		t.Fatalf("unexpected user id: %d", data.User.ID)
	}
	if data.User.Username != "alice" || data.User.FirstName != "Alice" {
		t.Fatalf("unexpected user: %+v", data.User)
	}
	if !data.User.IsPremium {
		t.Fatalf("expected is_premium to survive decoding")
	}
	if data.QueryID == "" {
		t.Fatalf("expected query_id to be kept")
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, testBotToken, validFields(now))

	// Flip a single character inside the signed region.
	tampered := strings.Replace(raw, "alice", "alicf", 1)
	if tampered == raw {
		t.Fatalf("tampering had no effect")
	}

	if _, err := Verify(tampered, testBotToken, now); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerify_WrongBotToken(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, testBotToken, validFields(now))

	if _, err := Verify(raw, testBotToken+"x", now); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerify_MissingHash(t *testing.T) {
	if _, err := Verify("user=%7B%22id%22%3A42%7D", testBotToken, time.Now()); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerify_MissingUser(t *testing.T) {
	now := time.Now()
	fields := validFields(now)
	delete(fields, "user")
	raw := signInitData(t, testBotToken, fields)

	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}

func TestVerify_FreshnessBoundary(t *testing.T) {
	authDate := time.Unix(1700000000, 0)

	fields := validFields(authDate)
	raw := signInitData(t, testBotToken, fields)

	// Exactly MaxAge old: still accepted.
	if _, err := Verify(raw, testBotToken, authDate.Add(MaxAge)); err != nil {
		t.Fatalf("payload exactly at boundary rejected: %v", err)
	}

	// One second past the boundary: rejected despite a correct signature.
	if _, err := Verify(raw, testBotToken, authDate.Add(MaxAge+time.Second)); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData for stale payload, got %v", err)
	}
}

func TestVerify_NoAuthDateAccepted(t *testing.T) {
	fields := map[string]string{
		"user": `{"id":7,"first_name":"Bob"}`,
	}
	raw := signInitData(t, testBotToken, fields)

	data, err := Verify(raw, testBotToken, time.Now())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if data.User.ID != 7 {
		t.Fatalf("unexpected user id: %d", data.User.ID)
	}
}

func TestVerify_GarbageInput(t *testing.T) {
	for _, raw := range []string{"", "not-a-query-string", "hash=deadbeef"} {
		if _, err := Verify(raw, testBotToken, time.Now()); !errors.Is(err, ErrInvalidInitData) {
			t.Fatalf("input %q: expected ErrInvalidInitData, got %v", raw, err)
		}
	}
}

func TestVerify_ErrorsAreOpaque(t *testing.T) {
	now := time.Now()

	stale := validFields(now.Add(-25 * time.Hour))
	noUser := validFields(now)
	delete(noUser, "user")

	cases := []string{
		signInitData(t, testBotToken+"x", validFields(now)), // bad signature
		signInitData(t, testBotToken, stale),                // stale auth_date
		signInitData(t, testBotToken, noUser),               // missing user
	}
	for i, raw := range cases {
		_, err := Verify(raw, testBotToken, now)
		if !errors.Is(err, ErrInvalidInitData) {
			t.Fatalf("case %d: expected ErrInvalidInitData, got %v", i, err)
		}
		// The sentinel is what handlers may expose.
		if got := ErrInvalidInitData.Error(); got != "invalid init data" {
			t.Fatalf("unexpected sentinel message: %q", got)
		}
		_ = fmt.Sprintf("%v", err)
	}
}
