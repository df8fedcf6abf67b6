package api

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// memAccounts is an in-memory credential store with the same persistence
// rules as the Mongo repository: Save writes profile fields only.
type memAccounts struct {
	mu   sync.Mutex
	byID map[string]domain.Account
	seq  int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: make(map[string]domain.Account)}
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &a, nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memAccounts) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.TokenVersion++
	m.byID[id] = a
	return nil
}

func (m *memAccounts) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	m.seq++
	a := *account
	a.ID = fmt.Sprintf("acc%d", m.seq)
	a.TokenVersion = 0
	a.PasswordChanged = false
	a.CreatedAt = time.Now().UTC()
	m.byID[a.ID] = a
	return &a, nil
}

func (m *memAccounts) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, ok := m.byID[account.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, a := range m.byID {
		if id != account.ID && a.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	next.Name = account.Name
	next.Email = account.Email
	next.ProfileImageURL = account.ProfileImageURL
	next.UpdatedAt = account.UpdatedAt
	if account.PasswordChanged {
		next.PasswordHash = account.PasswordHash
	}
	if account.RevokeTokens {
		next.TokenVersion++
	}
	account.PasswordChanged = false
	account.RevokeTokens = false
	m.byID[next.ID] = next
	return &next, nil
}

func (m *memAccounts) SetSuspension(_ context.Context, id string, suspended bool, reason string, at time.Time) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if suspended {
		a.Suspend(reason, at)
	} else {
		a.Unsuspend()
	}
	a.UpdatedAt = at
	m.byID[id] = a
	return &a, nil
}

func (m *memAccounts) List(_ context.Context) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Account, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, &a)
	}
	return out, nil
}

func (m *memAccounts) Delete(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return &a, nil
}

func (m *memAccounts) promote(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[id]
	a.Role = domain.RoleAdmin
	m.byID[id] = a
}

// memBlogs is an in-memory blog store.
type memBlogs struct {
	mu    sync.Mutex
	blogs map[string]*domain.Blog
	seq   int
}

func newMemBlogs() *memBlogs {
	return &memBlogs{blogs: make(map[string]*domain.Blog)}
}

func (m *memBlogs) copyOf(b *domain.Blog) *domain.Blog {
	c := *b
	c.Likes = slices.Clone(b.Likes)
	c.Comments = slices.Clone(b.Comments)
	return &c
}

func (m *memBlogs) Create(_ context.Context, blog *domain.Blog) (*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b := m.copyOf(blog)
	b.ID = fmt.Sprintf("blog%d", m.seq)
	m.blogs[b.ID] = b
	return m.copyOf(b), nil
}

func (m *memBlogs) FindByID(_ context.Context, id string) (*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	return m.copyOf(b), nil
}

func (m *memBlogs) List(_ context.Context) ([]*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		out = append(out, m.copyOf(b))
	}
	return out, nil
}

func (m *memBlogs) Update(_ context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.Image != nil {
		b.Image = *patch.Image
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	return m.copyOf(b), nil
}

func (m *memBlogs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return domain.ErrBlogNotFound
	}
	delete(m.blogs, id)
	return nil
}

func (m *memBlogs) Categories(_ context.Context) ([]domain.CategorySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := map[string]int{}
	var out []domain.CategorySummary
	for _, b := range m.blogs {
		i, ok := idx[b.Category]
		if !ok {
			i = len(out)
			idx[b.Category] = i
			out = append(out, domain.CategorySummary{Category: b.Category})
		}
		out[i].Count++
		out[i].BlogIDs = append(out[i].BlogIDs, b.ID)
	}
	return out, nil
}

func (m *memBlogs) ToggleLike(_ context.Context, blogID, userID string) (domain.LikeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return domain.LikeResult{}, domain.ErrBlogNotFound
	}
	if i := slices.Index(b.Likes, userID); i >= 0 {
		b.Likes = slices.Delete(b.Likes, i, i+1)
		return domain.LikeResult{Liked: false, Likes: len(b.Likes)}, nil
	}
	b.Likes = append(b.Likes, userID)
	return domain.LikeResult{Liked: true, Likes: len(b.Likes)}, nil
}

func (m *memBlogs) AddComment(_ context.Context, blogID string, c domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	m.seq++
	c.ID = fmt.Sprintf("cmt%d", m.seq)
	b.Comments = append(b.Comments, c)
	return &c, nil
}

func (m *memBlogs) UpdateComment(_ context.Context, blogID, commentID, text string, at time.Time) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	c := b.Comment(commentID)
	if c == nil {
		return nil, domain.ErrCommentNotFound
	}
	c.Text, c.UpdatedAt = text, at
	out := *c
	return &out, nil
}

func (m *memBlogs) DeleteComment(_ context.Context, blogID, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return domain.ErrBlogNotFound
	}
	i := slices.IndexFunc(b.Comments, func(c domain.Comment) bool { return c.ID == commentID })
	if i < 0 {
		return domain.ErrCommentNotFound
	}
	b.Comments = slices.Delete(b.Comments, i, i+1)
	return nil
}
