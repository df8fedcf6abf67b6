package auth

import (
	"slices"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// Policy decides whether an authenticated principal may act on a resource.
// ownerIDs holds every account id that owns the resource; it may be empty.
type Policy interface {
	Authorize(principal *domain.Account, ownerIDs []string) Decision
}

// RoleOnly admits principals holding Role.
type RoleOnly struct {
	Role domain.Role
}

func (p RoleOnly) Authorize(principal *domain.Account, _ []string) Decision {
	if principal == nil {
		return Reject(domain.ErrMissingCredential)
	}
	if principal.Role != p.Role {
		return Reject(domain.ErrForbidden)
	}
	return Continue(principal)
}

// OwnerOrRole admits any owner of the resource and any principal holding Role.
// A comment, for instance, is owned by both its author and the blog's author.
type OwnerOrRole struct {
	Role domain.Role
}

func (p OwnerOrRole) Authorize(principal *domain.Account, ownerIDs []string) Decision {
	if principal == nil {
		return Reject(domain.ErrMissingCredential)
	}
	if principal.Role == p.Role {
		return Continue(principal)
	}
	if principal.ID != "" && slices.Contains(ownerIDs, principal.ID) {
		return Continue(principal)
	}
	return Reject(domain.ErrForbidden)
}
