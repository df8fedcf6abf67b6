package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

// BlogService implements blog, like and comment operations. Ownership checks
// happen in the authorization stage before these methods are reached.
type BlogService struct {
	repo   ports.BlogRepository
	cache  ports.CategoryCache
	logger zerolog.Logger
}

// NewBlogService returns a BlogService. cache may be nil.
func NewBlogService(repo ports.BlogRepository, cache ports.CategoryCache, logger zerolog.Logger) *BlogService {
	return &BlogService{repo: repo, cache: cache, logger: logger}
}

func (s *BlogService) Create(ctx context.Context, in ports.CreateBlogInput) (*domain.Blog, error) {
	blog := &domain.Blog{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Image:    strings.TrimSpace(in.Image),
		Category: strings.TrimSpace(in.Category),
		AuthorID: in.AuthorID,
	}
	if blog.Title == "" || blog.Content == "" || blog.Image == "" || blog.Category == "" || blog.AuthorID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	blog.Likes = []string{}
	blog.Comments = []domain.Comment{}

	created, err := s.repo.Create(ctx, blog)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create blog")
		return nil, err
	}
	s.invalidateCategories(ctx)

	s.logger.Info().Str("blog_id", created.ID).Str("author_id", created.AuthorID).Msg("blog created")
	return created, nil
}

func (s *BlogService) List(ctx context.Context) ([]*domain.Blog, error) {
	return s.repo.List(ctx)
}

func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BlogService) Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error) {
	if patch.Empty() {
		return nil, domain.ErrInvalidInput
	}
	for _, f := range []*string{patch.Title, patch.Content, patch.Image, patch.Category} {
		if f != nil {
			*f = strings.TrimSpace(*f)
			if *f == "" {
				return nil, domain.ErrInvalidInput
			}
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Category != nil {
		s.invalidateCategories(ctx)
	}
	return updated, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	s.logger.Info().Str("blog_id", id).Msg("blog deleted")
	return nil
}

// Categories returns blogs grouped by category, most populated first. The
// aggregation is served from cache when available.
func (s *BlogService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID string) (domain.LikeResult, error) {
	return s.repo.ToggleLike(ctx, blogID, userID)
}

func (s *BlogService) AddComment(ctx context.Context, blogID, userID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	return s.repo.AddComment(ctx, blogID, domain.Comment{
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *BlogService) ListComments(ctx context.Context, blogID string) ([]domain.Comment, error) {
	blog, err := s.repo.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog.Comments == nil {
		return []domain.Comment{}, nil
	}
	return blog.Comments, nil
}

func (s *BlogService) UpdateComment(ctx context.Context, blogID, commentID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.UpdateComment(ctx, blogID, commentID, text, time.Now().UTC())
}

func (s *BlogService) DeleteComment(ctx context.Context, blogID, commentID string) error {
	return s.repo.DeleteComment(ctx, blogID, commentID)
}

func (s *BlogService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
