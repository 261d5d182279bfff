package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")

// sessionClaims is the signed claim set carried by both token types.
// Subject holds the user id; Typ pins the token to its cookie slot.
type sessionClaims struct {
	Role string `json:"role"`
	Typ  string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256-signed access/refresh pairs.
// Validity is entirely determined by the signature and the embedded exp;
// nothing is stored server-side and there is no revocation.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a fresh access/refresh pair for userID. Previously
// issued tokens stay valid until their own expiry.
func (s *TokenService) IssuePair(userID, role string) (*ports.TokenPair, error) {
	now := time.Now()

	access, err := s.sign(userID, role, tokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(userID, role, tokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess verifies token as an access token.
func (s *TokenService) ParseAccess(token string) (*ports.TokenClaims, error) {
	return s.parse(token, tokenTypeAccess)
}

// ParseRefresh verifies token as a refresh token.
func (s *TokenService) ParseRefresh(token string) (*ports.TokenClaims, error) {
	return s.parse(token, tokenTypeRefresh)
}

func (s *TokenService) sign(userID, role, typ string, now time.Time, ttl time.Duration) (string, error) {
	// iat/exp carry second precision, so without a unique id two tokens
	// minted in the same second would be byte-identical.
	jti, err := newTokenID()
	if err != nil {
		return "", err
	}

	claims := &sessionClaims{
		Role: role,
		Typ:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func newTokenID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *TokenService) parse(token, expectedTyp string) (*ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// A refresh token presented in the access slot (or vice versa) is
	// invalid regardless of its signature.
	if claims.Typ != expectedTyp {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &ports.TokenClaims{UserID: claims.Subject, Role: claims.Role}, nil
}
