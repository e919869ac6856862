package entity

import "time"

// Post is one content item as stored by the host CMS.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	AuthorID  int64     `json:"author"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	EditURL   string    `json:"edit_url"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRevision reports whether the item is a revision or autosave artifact
// rather than real content. Such items never fire triggers.
func (p *Post) IsRevision() bool {
	return p.Type == "revision" || p.Type == "autosave"
}

// MediaRef identifies one stored media item.
type MediaRef struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	EditURL string `json:"edit_url"`
}

// TermRef identifies one taxonomy term (category or tag).
type TermRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Taxonomy string `json:"taxonomy"`
}

// Comment is one comment as delivered by the host CMS.
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateItemRequest is the content-item creation request handed to the
// Content Store.
type CreateItemRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Status      string  `json:"status"`
	AuthorID    int64   `json:"author"`
	CategoryIDs []int64 `json:"categories,omitempty"`
	TagIDs      []int64 `json:"tags,omitempty"`
}
