package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/api/metrics"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

// BlogHandler serves blog, like and comment routes.
type BlogHandler struct {
	blogs ports.BlogService
}

func NewBlogHandler(blogs ports.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

// BlogOwner resolves the author of the blog named by :blogId.
func (h *BlogHandler) BlogOwner(c echo.Context) ([]string, error) {
	blog, err := h.blogs.Get(c.Request().Context(), c.Param("blogId"))
	if err != nil {
		return nil, err
	}
	return []string{blog.AuthorID}, nil
}

// CommentAuthor resolves the author of the comment named by :commentId.
func (h *BlogHandler) CommentAuthor(c echo.Context) ([]string, error) {
	_, comment, err := h.comment(c)
	if err != nil {
		return nil, err
	}
	return []string{comment.UserID}, nil
}

// CommentOrBlogAuthor resolves both the comment author and the blog author.
func (h *BlogHandler) CommentOrBlogAuthor(c echo.Context) ([]string, error) {
	blog, comment, err := h.comment(c)
	if err != nil {
		return nil, err
	}
	return []string{comment.UserID, blog.AuthorID}, nil
}

func (h *BlogHandler) comment(c echo.Context) (*domain.Blog, *domain.Comment, error) {
	blog, err := h.blogs.Get(c.Request().Context(), c.Param("blogId"))
	if err != nil {
		return nil, nil, err
	}
	comment := blog.Comment(c.Param("commentId"))
	if comment == nil {
		return nil, nil, domain.ErrCommentNotFound
	}
	return blog, comment, nil
}

// Create publishes a blog authored by the caller.
//
// @Summary      Create blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBlogRequest  true  "Blog fields"
// @Success      201   {object}  domain.Blog
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, err := h.blogs.Create(c.Request().Context(), ports.CreateBlogInput{
		Title:    req.Title,
		Content:  req.Content,
		Image:    req.Image,
		Category: req.Category,
		AuthorID: p.ID,
	})
	if err != nil {
		return err
	}
	metrics.BlogsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, blog)
}

// List returns every blog, newest first.
//
// @Summary      List blogs
// @Tags         blogs
// @Produce      json
// @Success      200  {array}  domain.Blog
// @Router       /api/blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	blogs, err := h.blogs.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blogs)
}

// Categories groups blogs by category.
//
// @Summary      Blogs by category
// @Tags         blogs
// @Produce      json
// @Success      200  {array}  domain.CategorySummary
// @Router       /api/blogs/category [get]
func (h *BlogHandler) Categories(c echo.Context) error {
	categories, err := h.blogs.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Get returns one blog.
//
// @Summary      Get blog
// @Tags         blogs
// @Produce      json
// @Param        blogId  path      string  true  "Blog ID"
// @Success      200     {object}  domain.Blog
// @Failure      404     {object}  map[string]string
// @Router       /api/blogs/{blogId} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	blog, err := h.blogs.Get(c.Request().Context(), c.Param("blogId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blog)
}

// Update edits a blog.
//
// @Summary      Update blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        blogId  path      string             true  "Blog ID"
// @Param        body    body      updateBlogRequest  true  "Fields to change"
// @Success      200     {object}  domain.Blog
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/blogs/{blogId} [patch]
func (h *BlogHandler) Update(c echo.Context) error {
	var req updateBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, err := h.blogs.Update(c.Request().Context(), c.Param("blogId"), domain.BlogPatch{
		Title:    req.Title,
		Content:  req.Content,
		Image:    req.Image,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blog)
}

// Delete removes a blog.
//
// @Summary      Delete blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        blogId  path  string  true  "Blog ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/blogs/{blogId} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	if err := h.blogs.Delete(c.Request().Context(), c.Param("blogId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes the blog, or removes the caller's like.
//
// @Summary      Toggle like
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        blogId  path      string  true  "Blog ID"
// @Success      200     {object}  domain.LikeResult
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/blogs/{blogId}/like [post]
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.blogs.ToggleLike(c.Request().Context(), c.Param("blogId"), p.ID)
	if err != nil {
		return err
	}
	action := "unlike"
	if res.Liked {
		action = "like"
	}
	metrics.LikesToggledTotal.WithLabelValues(action).Inc()

	return c.JSON(http.StatusOK, res)
}

// AddComment comments on a blog as the caller.
//
// @Summary      Add comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        blogId  path      string          true  "Blog ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      201     {object}  domain.Comment
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/blogs/{blogId}/comments [post]
func (h *BlogHandler) AddComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.blogs.AddComment(c.Request().Context(), c.Param("blogId"), p.ID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments returns the comments of a blog.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        blogId  path      string  true  "Blog ID"
// @Success      200     {array}   domain.Comment
// @Failure      404     {object}  map[string]string
// @Router       /api/blogs/{blogId}/comments [get]
func (h *BlogHandler) ListComments(c echo.Context) error {
	comments, err := h.blogs.ListComments(c.Request().Context(), c.Param("blogId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment.
//
// @Summary      Update comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        blogId     path      string          true  "Blog ID"
// @Param        commentId  path      string          true  "Comment ID"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      200        {object}  domain.Comment
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/blogs/{blogId}/comments/{commentId} [patch]
func (h *BlogHandler) UpdateComment(c echo.Context) error {
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.blogs.UpdateComment(c.Request().Context(), c.Param("blogId"), c.Param("commentId"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment.
//
// @Summary      Delete comment
// @Tags         comments
// @Security     BearerAuth
// @Param        blogId     path  string  true  "Blog ID"
// @Param        commentId  path  string  true  "Comment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/blogs/{blogId}/comments/{commentId} [delete]
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	if err := h.blogs.DeleteComment(c.Request().Context(), c.Param("blogId"), c.Param("commentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
