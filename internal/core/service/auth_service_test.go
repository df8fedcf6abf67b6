package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

var testSecret = []byte("service-test-secret-0123456789abcdef")

func newAuthSvc(t *testing.T, repo *stubAccountRepo, hasher auth.PasswordHasher) (*AuthService, *auth.TokenCodec) {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return NewAuthService(repo, hasher, auth.NewSessionIssuer(codec), time.Hour, zerolog.Nop()), codec
}

func register(t *testing.T, svc *AuthService, name, email, password string) *domain.Account {
	t.Helper()
	a, err := svc.Register(context.Background(), ports.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return a
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	hasher := newCountingHasher()
	svc, _ := newAuthSvc(t, repo, hasher)

	user := register(t, svc, "  Alice ", "  Alice@Example.COM ", "pass123")

	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if user.TokenVersion != 0 {
		t.Fatalf("expected token version 0, got %d", user.TokenVersion)
	}
	if user.ProfileImageURL != domain.DefaultProfileImage {
		t.Fatalf("expected default avatar, got %q", user.ProfileImageURL)
	}

	stored := repo.stored(user.ID)
	if stored.PasswordHash == "pass123" || stored.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if !hasher.Verify(context.Background(), "pass123", stored.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if n := hasher.hashes.Load(); n != 1 {
		t.Fatalf("expected exactly one hash on register, got %d", n)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubAccountRepo(), newCountingHasher())

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "pw"},
		{Name: "A", Email: "   ", Password: "pw"},
		{Name: "A", Email: "a@example.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_EmailTakenCaseInsensitive(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubAccountRepo(), newCountingHasher())

	register(t, svc, "Bob", "bob@example.com", "pass")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bob2", Email: "BOB@example.com", Password: "pass2"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, codec := newAuthSvc(t, repo, newCountingHasher())

	user := register(t, svc, "Carol", "carol@example.com", "s3cret")
	if err := repo.IncrementTokenVersion(context.Background(), user.ID); err != nil {
		t.Fatalf("bump: %v", err)
	}

	res, err := svc.Login(context.Background(), "CAROL@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.ExpiresIn != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", res.ExpiresIn)
	}
	if time.Until(res.ExpiresAt) <= 59*time.Minute {
		t.Fatalf("unexpected expiry %s", res.ExpiresAt)
	}

	claims, err := codec.Decode(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenVersion != 1 {
		t.Fatalf("expected token version read fresh (1), got %d", claims.TokenVersion)
	}
}

func TestAuthService_Login_InvalidCredentialsAreUniform(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubAccountRepo(), newCountingHasher())
	register(t, svc, "Dave", "dave@example.com", "goodpass")

	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Login_Suspended(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newAuthSvc(t, repo, newCountingHasher())
	user := register(t, svc, "Eve", "eve@example.com", "pw")

	if _, err := repo.SetSuspension(context.Background(), user.ID, true, "abuse", time.Now()); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	if _, err := svc.Login(context.Background(), "eve@example.com", "pw"); !errors.Is(err, domain.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
	// a wrong password on a suspended account must not reveal the suspension
	if _, err := svc.Login(context.Background(), "eve@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_BumpsTokenVersion(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newAuthSvc(t, repo, newCountingHasher())
	user := register(t, svc, "Frank", "frank@example.com", "pw")

	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if v := repo.stored(user.ID).TokenVersion; v != 2 {
		t.Fatalf("expected token version 2, got %d", v)
	}

	if err := svc.Logout(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.err = errors.New("mongo down")
	svc, _ := newAuthSvc(t, repo, newCountingHasher())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "G", Email: "g@example.com", Password: "pw"})
	if err == nil || errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
