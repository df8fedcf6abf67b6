package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// TokenTypeAccess is the only token type this service issues.
const TokenTypeAccess = "access"

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrEmptySecret      = errors.New("signing secret must not be empty")
)

// Claims is the signed payload of an access token:
// {sub, role, tokenVersion, iat, exp, type}.
type Claims struct {
	jwt.RegisteredClaims
	Role         domain.Role `json:"role"`
	TokenVersion int64       `json:"tokenVersion"`
	Type         string      `json:"type"`
}

// TokenCodec signs and verifies HS256 access tokens. The secret is fixed at
// construction.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the codec's time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

func NewTokenCodec(secret []byte, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Now returns the codec's current time.
func (c *TokenCodec) Now() time.Time {
	return c.now()
}

// Encode signs claims into a three-part token string.
func (c *TokenCodec) Encode(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies token and returns its claims. Signature and expiry are
// checked before any claim is returned.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" || claims.Type != TokenTypeAccess {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrMalformedToken
	}
}
