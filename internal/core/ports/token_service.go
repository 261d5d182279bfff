package ports

// TokenPair carries a freshly minted access/refresh token pair. Tokens
// are bearer capabilities: nothing about them is stored server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims is the decoded, verified content of one token.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenService mints and verifies the signed session tokens. ParseAccess
// and ParseRefresh reject a structurally valid token whose embedded type
// does not match the slot it came from.
type TokenService interface {
	IssuePair(userID, role string) (*TokenPair, error)
	ParseAccess(token string) (*TokenClaims, error)
	ParseRefresh(token string) (*TokenClaims, error)
}
