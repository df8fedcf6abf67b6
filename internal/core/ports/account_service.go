package ports

import (
	"context"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// ProfileUpdate carries the optional fields of a profile update. Role is not
// updatable through this path.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	ProfileImageURL *string
}

// AccountService manages accounts after registration.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.Account, error)
	Delete(ctx context.Context, id string) (*domain.Account, error)
	Suspend(ctx context.Context, id, reason string) (*domain.Account, error)
	Unsuspend(ctx context.Context, id string) (*domain.Account, error)
	ChangePassword(ctx context.Context, id, current, next string) error
}
