package ports

import (
	"context"
	"time"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// AuthService handles credential verification and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout invalidates every token previously issued to the account.
	Logout(ctx context.Context, accountID string) error
}
