package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

// AccountService manages existing accounts: profile, suspension, deletion and
// password changes.
type AccountService struct {
	repo                   ports.AccountRepository
	hasher                 auth.PasswordHasher
	revokeOnPasswordChange bool
	logger                 zerolog.Logger
}

// NewAccountService returns an AccountService. When revokeOnPasswordChange is
// set, a password change also bumps the token version.
func NewAccountService(
	repo ports.AccountRepository,
	hasher auth.PasswordHasher,
	revokeOnPasswordChange bool,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:                   repo,
		hasher:                 hasher,
		revokeOnPasswordChange: revokeOnPasswordChange,
		logger:                 logger,
	}
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies name, email and avatar changes. The role and the
// password hash are never touched here.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		account.Name = name
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		if email != account.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != account.ID:
				return nil, domain.ErrEmailTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("update profile: %w", err)
			}
			account.Email = email
		}
	}

	if in.ProfileImageURL != nil {
		account.ProfileImageURL = strings.TrimSpace(*in.ProfileImageURL)
	}

	account.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, account)
}

func (s *AccountService) Delete(ctx context.Context, id string) (*domain.Account, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id).Msg("account deleted")
	return deleted, nil
}

// Suspend blocks the account. Outstanding tokens stay well-formed but the
// authentication stage rejects them on their next use.
func (s *AccountService) Suspend(ctx context.Context, id, reason string) (*domain.Account, error) {
	account, err := s.repo.SetSuspension(ctx, id, true, strings.TrimSpace(reason), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id).Str("reason", account.SuspensionReason).Msg("account suspended")
	return account, nil
}

func (s *AccountService) Unsuspend(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.SetSuspension(ctx, id, false, "", time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id).Msg("account reinstated")
	return account, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. This is the only path besides registration that hashes a password.
// With revocation on, the hash and the token version bump land in one write.
func (s *AccountService) ChangePassword(ctx context.Context, id, current, next string) error {
	if next == "" {
		return domain.ErrInvalidInput
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(ctx, current, account.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	account.SetPasswordHash(hash)
	account.RevokeTokens = s.revokeOnPasswordChange
	account.UpdatedAt = time.Now().UTC()

	if _, err := s.repo.Save(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", id).Bool("tokens_revoked", s.revokeOnPasswordChange).Msg("password changed")
	return nil
}
