package ports

import (
	"context"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// CreateBlogInput carries all data needed to publish a blog.
type CreateBlogInput struct {
	Title    string
	Content  string
	Image    string
	Category string
	AuthorID string
}

// BlogService covers blog, like and comment operations.
type BlogService interface {
	Create(ctx context.Context, in CreateBlogInput) (*domain.Blog, error)
	List(ctx context.Context) ([]*domain.Blog, error)
	Get(ctx context.Context, id string) (*domain.Blog, error)
	Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
	ToggleLike(ctx context.Context, blogID, userID string) (domain.LikeResult, error)
	AddComment(ctx context.Context, blogID, userID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, blogID string) ([]domain.Comment, error)
	UpdateComment(ctx context.Context, blogID, commentID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, blogID, commentID string) error
}
