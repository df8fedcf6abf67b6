package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

var (
	owner    = &domain.Account{ID: "owner", Role: domain.RoleUser}
	admin    = &domain.Account{ID: "admin", Role: domain.RoleAdmin}
	stranger = &domain.Account{ID: "stranger", Role: domain.RoleUser}
)

func TestRoleOnly(t *testing.T) {
	p := RoleOnly{Role: domain.RoleAdmin}

	assert.True(t, p.Authorize(admin, nil).Allowed())
	assert.ErrorIs(t, p.Authorize(owner, []string{"owner"}).Reason(), domain.ErrForbidden)
	assert.ErrorIs(t, p.Authorize(nil, nil).Reason(), domain.ErrMissingCredential)
}

func TestOwnerOrRole_PrincipalKinds(t *testing.T) {
	p := OwnerOrRole{Role: domain.RoleAdmin}
	owners := []string{"owner"}

	tests := []struct {
		name      string
		principal *domain.Account
		allowed   bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"unrelated user", stranger, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Authorize(tc.principal, owners)
			assert.Equal(t, tc.allowed, d.Allowed())
			if tc.allowed {
				assert.Equal(t, tc.principal, d.Principal())
			} else {
				assert.ErrorIs(t, d.Reason(), domain.ErrForbidden)
			}
		})
	}
}

func TestOwnerOrRole_OwnerSet(t *testing.T) {
	// comment author and blog author both own a comment
	p := OwnerOrRole{Role: domain.RoleAdmin}
	commentAuthor := &domain.Account{ID: "commenter", Role: domain.RoleUser}
	blogAuthor := &domain.Account{ID: "blogger", Role: domain.RoleUser}
	owners := []string{"commenter", "blogger"}

	assert.True(t, p.Authorize(commentAuthor, owners).Allowed())
	assert.True(t, p.Authorize(blogAuthor, owners).Allowed())
	assert.True(t, p.Authorize(admin, owners).Allowed())
	assert.False(t, p.Authorize(stranger, owners).Allowed())
}

func TestOwnerOrRole_EmptyIDNeverOwns(t *testing.T) {
	p := OwnerOrRole{Role: domain.RoleAdmin}
	anon := &domain.Account{Role: domain.RoleUser}

	assert.False(t, p.Authorize(anon, []string{""}).Allowed())
	assert.False(t, p.Authorize(stranger, nil).Allowed())
}

func TestDecision(t *testing.T) {
	d := Continue(nil)
	assert.False(t, d.Allowed())
	assert.ErrorIs(t, d.Reason(), domain.ErrMissingCredential)

	var zero Decision
	assert.False(t, zero.Allowed())
	assert.ErrorIs(t, zero.Reason(), domain.ErrMissingCredential)
}
