package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
)

// stubAccountRepo mimics the Mongo credential store: Save only writes the
// profile fields, the password hash when flagged as changed and the token
// version bump when flagged; suspension only moves through SetSuspension.
type stubAccountRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Account
	nextID     int
	err        error
	saveErr    error
	increments int
	// afterFind runs once, after the next FindByID has read the account.
	afterFind func()
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordChanged = false
	clone.RevokeTokens = false
	return &clone
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}
	a, ok := r.byID[id]
	found := cloneAccount(a)
	hook := r.afterFind
	r.afterFind = nil
	r.mu.Unlock()

	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if hook != nil {
		hook()
	}
	return found, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) IncrementTokenVersion(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.TokenVersion++
	r.increments++
	return nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	stored := cloneAccount(account)
	stored.ID = fmt.Sprintf("acc-%d", r.nextID)
	stored.TokenVersion = 0
	r.byID[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	stored, ok := r.byID[account.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name = account.Name
	stored.Email = account.Email
	stored.ProfileImageURL = account.ProfileImageURL
	stored.UpdatedAt = account.UpdatedAt
	if account.PasswordChanged {
		stored.PasswordHash = account.PasswordHash
	}
	if account.RevokeTokens {
		stored.TokenVersion++
	}
	account.PasswordChanged = false
	account.RevokeTokens = false
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) SetSuspension(_ context.Context, id string, suspended bool, reason string, at time.Time) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if suspended {
		stored.Suspend(reason, at)
	} else {
		stored.Unsuspend()
	}
	stored.UpdatedAt = at
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) stored(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAccount(r.byID[id])
}

// countingHasher records how often Hash runs.
type countingHasher struct {
	inner  *auth.BcryptHasher
	hashes atomic.Int32
}

func newCountingHasher() *countingHasher {
	return &countingHasher{inner: auth.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	h.hashes.Add(1)
	return h.inner.Hash(ctx, plaintext)
}

func (h *countingHasher) Verify(ctx context.Context, plaintext, hash string) bool {
	return h.inner.Verify(ctx, plaintext, hash)
}
