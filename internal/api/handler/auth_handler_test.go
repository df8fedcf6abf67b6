package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleUser, PasswordHash: "$2a$hash"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newRequest(http.MethodPost, "/api/users/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") || strings.Contains(rec.Body.String(), "token_version") {
		t.Fatalf("credential fields leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	cases := map[string]string{
		"not json":       "not-json",
		"missing name":   `{"email":"a@example.com","password":"secret1"}`,
		"bad email":      `{"name":"A","email":"nope","password":"secret1"}`,
		"short password": `{"name":"A","email":"a@example.com","password":"123"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newRequest(http.MethodPost, "/api/users/register", body, nil)
			if code := httpStatus(h.Register(c)); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	c, _ := newRequest(http.MethodPost, "/api/users/register", `{"name":"B","email":"b@example.com","password":"secret1"}`, nil)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Account:   &domain.Account{ID: "u1", Email: email, Role: domain.RoleUser},
				Token:     "token123",
				ExpiresAt: expires,
				ExpiresIn: 30 * time.Minute,
			}, nil
		},
	}

	c, rec := newRequest(http.MethodPost, "/api/users/login", `{"email":"alice@example.com","password":"secret"}`, nil)
	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.TokenType != "Bearer" || resp.ExpiresIn != 1800 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ExpiresAt != "2030-01-01T12:00:00Z" {
		t.Fatalf("unexpected expires_at: %s", resp.ExpiresAt)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("expected user in response")
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountSuspended} {
		stub := &stubAuthService{
			loginFn: func(context.Context, string, string) (*ports.LoginResult, error) { return nil, want },
		}
		c, _ := newRequest(http.MethodPost, "/api/users/login", `{"email":"a@example.com","password":"x"}`, nil)
		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var got string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, id string) error {
			got = id
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newRequest(http.MethodPost, "/api/users/logout", "", &domain.Account{ID: "u7"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "u7" || rec.Code != http.StatusOK {
		t.Fatalf("expected logout of u7 with 200, got %q / %d", got, rec.Code)
	}

	c, _ = newRequest(http.MethodPost, "/api/users/logout", "", nil)
	if err := h.Logout(c); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential without principal, got %v", err)
	}
}
