package ports

import (
	"context"
	"time"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// BlogRepository persists blogs with their embedded likes and comments.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	FindByID(ctx context.Context, id string) (*domain.Blog, error)
	// List returns every blog, newest first, with author summaries.
	List(ctx context.Context) ([]*domain.Blog, error)
	Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
	// ToggleLike adds userID to the likes set when absent and removes it when
	// present, in a single atomic update.
	ToggleLike(ctx context.Context, blogID, userID string) (domain.LikeResult, error)
	AddComment(ctx context.Context, blogID string, comment domain.Comment) (*domain.Comment, error)
	UpdateComment(ctx context.Context, blogID, commentID, text string, at time.Time) (*domain.Comment, error)
	DeleteComment(ctx context.Context, blogID, commentID string) error
}

// CategoryCache stores the category aggregation between writes.
type CategoryCache interface {
	Get(ctx context.Context) ([]domain.CategorySummary, bool, error)
	Set(ctx context.Context, categories []domain.CategorySummary) error
	Invalidate(ctx context.Context) error
}
