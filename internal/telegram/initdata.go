// Package telegram verifies the signed initData payload the Telegram
// client attaches to Mini-App launches.
//
// The check chain follows Telegram's WebApp contract: the shared secret
// is HMAC-SHA256("WebAppData", botToken); the submitted hash must equal
// HMAC-SHA256(secret, dataCheckString) where dataCheckString is every
// pair except "hash", sorted by key and joined as "k=v" lines.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxAge is the freshness window for auth_date. A payload exactly MaxAge
// old is still accepted; one second older is not.
const MaxAge = 24 * time.Hour

// ErrInvalidInitData is the only error Verify exposes. Callers must not
// learn which check failed; the wrapped detail exists for server logs.
var ErrInvalidInitData = errors.New("invalid init data")

// Identity is the user object embedded in a verified payload.
type Identity struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
}

// InitData is a successfully verified payload.
type InitData struct {
	User     Identity
	AuthDate time.Time
	QueryID  string
}

// Verify checks raw against botToken and returns the decoded payload.
// now is the verification instant; pass time.Now() outside tests.
func Verify(raw, botToken string, now time.Time) (*InitData, error) {
	pairs, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", ErrInvalidInitData)
	}

	submitted := pairs.Get("hash")
	if submitted == "" {
		return nil, fmt.Errorf("missing hash: %w", ErrInvalidInitData)
	}
	pairs.Del("hash")

	if !hashEqual(checkString(pairs), botToken, submitted) {
		return nil, fmt.Errorf("signature mismatch: %w", ErrInvalidInitData)
	}

	var authDate time.Time
	if v := pairs.Get("auth_date"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad auth_date: %w", ErrInvalidInitData)
		}
		if ts != 0 {
			authDate = time.Unix(ts, 0)
			if now.Sub(authDate) > MaxAge {
				return nil, fmt.Errorf("stale auth_date: %w", ErrInvalidInitData)
			}
		}
	}

	userRaw := pairs.Get("user")
	if userRaw == "" {
		return nil, fmt.Errorf("missing user: %w", ErrInvalidInitData)
	}
	var user Identity
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return nil, fmt.Errorf("bad user: %w", ErrInvalidInitData)
	}

	return &InitData{
		User:     user,
		AuthDate: authDate,
		QueryID:  pairs.Get("query_id"),
	}, nil
}

// checkString builds the canonical data-check string: every key sorted
// lexicographically, one "key=value" per line.
func checkString(pairs url.Values) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+pairs.Get(k))
	}
	return strings.Join(lines, "\n")
}

func hashEqual(checkStr, botToken, submitted string) bool {
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkStr))
	computed := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(computed), []byte(submitted)) == 1
}
