package handler

import "github.com/blogsphere/blog-api/internal/core/domain"

// --- Accounts ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt string          `json:"expires_at"`
	ExpiresIn int64           `json:"expires_in"`
	User      *domain.Account `json:"user"`
}

type updateProfileRequest struct {
	Name            *string `json:"name"              validate:"omitnil,min=1,max=100"`
	Email           *string `json:"email"             validate:"omitnil,email"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitnil,max=2048"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

type suspendRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Blogs ---

type createBlogRequest struct {
	Title    string `json:"title"    validate:"required,max=200"`
	Content  string `json:"content"  validate:"required"`
	Image    string `json:"image"    validate:"required"`
	Category string `json:"category" validate:"required,max=100"`
}

type updateBlogRequest struct {
	Title    *string `json:"title"    validate:"omitnil,min=1,max=200"`
	Content  *string `json:"content"  validate:"omitnil,min=1"`
	Image    *string `json:"image"    validate:"omitnil,min=1"`
	Category *string `json:"category" validate:"omitnil,min=1,max=100"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}
