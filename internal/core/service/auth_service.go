package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.AccountRepository
	hasher   auth.PasswordHasher
	issuer   *auth.SessionIssuer
	tokenTTL time.Duration
	logger   zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher auth.PasswordHasher,
	issuer *auth.SessionIssuer,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register creates a user account with token version 0. The password is
// hashed exactly once, right before the account is inserted.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:            name,
		Email:           email,
		ProfileImageURL: domain.DefaultProfileImage,
		Role:            domain.RoleUser,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	account.SetPasswordHash(hash)

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login verifies credentials and issues an access token bound to the
// account's current token version. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// keep timing close to the wrong-password path
			s.hasher.Verify(ctx, password, s.fallbackHash(ctx))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(ctx, password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if account.IsSuspended {
		return nil, domain.ErrAccountSuspended
	}

	issued, err := s.issuer.Issue(account.ID, account.Role, account.TokenVersion, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Msg("login succeeded")
	return &ports.LoginResult{
		Account:   account,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		ExpiresIn: issued.ExpiresIn,
	}, nil
}

// Logout bumps the token version, invalidating every token issued so far to
// the account, including those held by other sessions.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if err := s.repo.IncrementTokenVersion(ctx, accountID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("account_id", accountID).Msg("tokens revoked")
	return nil
}

func (s *AuthService) fallbackHash(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(ctx, "blog-api-timing-equaliser")
		if err != nil {
			s.logger.Warn().Err(err).Msg("could not prepare fallback hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
