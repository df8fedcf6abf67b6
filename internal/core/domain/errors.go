package domain

import "errors"

// Authentication failures. All of them render as 401 except ErrAccountSuspended.
var (
	ErrMissingCredential  = errors.New("missing credential")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrStaleCredential    = errors.New("stale credential")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Authorization failures.
var ErrForbidden = errors.New("access forbidden")

// Account errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Blog errors.
var (
	ErrBlogNotFound    = errors.New("blog not found")
	ErrCommentNotFound = errors.New("comment not found")
)
