package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, accountID string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, accountID string) error {
	return s.logoutFn(ctx, accountID)
}

type stubAccountService struct {
	ports.AccountService
	updateFn  func(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.Account, error)
	suspendFn func(ctx context.Context, id, reason string) (*domain.Account, error)
	changeFn  func(ctx context.Context, id, current, next string) error
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubAccountService) Suspend(ctx context.Context, id, reason string) (*domain.Account, error) {
	return s.suspendFn(ctx, id, reason)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id, current, next string) error {
	return s.changeFn(ctx, id, current, next)
}

type stubBlogService struct {
	ports.BlogService
	createFn func(ctx context.Context, in ports.CreateBlogInput) (*domain.Blog, error)
	getFn    func(ctx context.Context, id string) (*domain.Blog, error)
	likeFn   func(ctx context.Context, blogID, userID string) (domain.LikeResult, error)
}

func (s *stubBlogService) Create(ctx context.Context, in ports.CreateBlogInput) (*domain.Blog, error) {
	return s.createFn(ctx, in)
}

func (s *stubBlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	return s.getFn(ctx, id)
}

func (s *stubBlogService) ToggleLike(ctx context.Context, blogID, userID string) (domain.LikeResult, error) {
	return s.likeFn(ctx, blogID, userID)
}

// newRequest builds a context with a JSON body and, optionally, a principal.
func newRequest(method, target, body string, p *domain.Account) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if p != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
