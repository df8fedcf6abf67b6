package domain

import "time"

// AuthorSummary is the public projection of a blog author.
type AuthorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Comment is stored as a sub-document of its blog. User is populated on
// reads when the commenter still exists.
type Comment struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	User      *AuthorSummary `json:"user,omitempty"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Blog is a published post together with its likes and comments.
type Blog struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Image     string         `json:"image"`
	Category  string         `json:"category"`
	AuthorID  string         `json:"author_id"`
	Author    *AuthorSummary `json:"author,omitempty"`
	Likes     []string       `json:"likes"`
	Comments  []Comment      `json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Comment returns the comment with the given id, or nil.
func (b *Blog) Comment(id string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == id {
			return &b.Comments[i]
		}
	}
	return nil
}

// BlogPatch carries the optional fields of a blog update.
type BlogPatch struct {
	Title    *string
	Content  *string
	Image    *string
	Category *string
}

// Empty reports whether the patch changes nothing.
func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Image == nil && p.Category == nil
}

// CategorySummary groups blog ids by category.
type CategorySummary struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	BlogIDs  []string `json:"blog_ids"`
}

// LikeResult reports the state of a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
