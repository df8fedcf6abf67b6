package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

var ErrInvalidTTL = errors.New("token ttl must be positive")

// IssuedToken is an encoded access token with its absolute expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// SessionIssuer mints access tokens bound to an account's token version.
type SessionIssuer struct {
	codec *TokenCodec
}

func NewSessionIssuer(codec *TokenCodec) *SessionIssuer {
	return &SessionIssuer{codec: codec}
}

// Issue builds and signs claims for the account. generation must be the value
// read from the store for this login, not a cached copy.
func (i *SessionIssuer) Issue(accountID string, role domain.Role, generation int64, ttl time.Duration) (IssuedToken, error) {
	if ttl <= 0 {
		return IssuedToken{}, ErrInvalidTTL
	}
	now := i.codec.Now()
	expiresAt := now.Add(ttl)

	token, err := i.codec.Encode(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:         role,
		TokenVersion: generation,
		Type:         TokenTypeAccess,
	})
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{Token: token, ExpiresAt: expiresAt, ExpiresIn: ttl}, nil
}
