package ports

import (
	"context"
	"time"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// AccountRepository is the credential store. It is the single source of truth
// for an account's token version and suspension state.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// IncrementTokenVersion atomically bumps the account's token version.
	IncrementTokenVersion(ctx context.Context, id string) error
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// Save persists the profile fields (name, email, avatar). The password hash
	// is written only when account.PasswordChanged is set, and the token version
	// is bumped in the same write when account.RevokeTokens is set. Role and
	// suspension state are never written by Save.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// SetSuspension writes the suspension fields alone. Suspending records at
	// and reason; reinstating clears both.
	SetSuspension(ctx context.Context, id string, suspended bool, reason string, at time.Time) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) (*domain.Account, error)
}
