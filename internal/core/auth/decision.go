package auth

import (
	"context"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// Decision is the outcome of a pipeline stage: either Continue with a
// principal or Reject with a reason.
type Decision struct {
	principal *domain.Account
	reason    error
}

// Continue lets the request proceed as principal.
func Continue(principal *domain.Account) Decision {
	if principal == nil {
		return Reject(domain.ErrMissingCredential)
	}
	return Decision{principal: principal}
}

// Reject stops the request with reason.
func Reject(reason error) Decision {
	return Decision{reason: reason}
}

// Allowed reports whether the stage let the request through.
func (d Decision) Allowed() bool {
	return d.reason == nil && d.principal != nil
}

func (d Decision) Principal() *domain.Account {
	return d.principal
}

// Reason is nil for a Continue decision.
func (d Decision) Reason() error {
	if d.reason == nil && d.principal == nil {
		return domain.ErrMissingCredential
	}
	return d.reason
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the request's principal.
func WithPrincipal(ctx context.Context, principal *domain.Account) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom returns the principal attached by the authentication stage.
func PrincipalFrom(ctx context.Context) (*domain.Account, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Account)
	return p, ok && p != nil
}
