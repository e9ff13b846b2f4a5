// Package models provides data model definitions for Quill.
package models

import "time"

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post represents a blog article. Tag and video associations live in side
// tables and are not part of this struct; see posts.HydratedPost.
type Post struct {
	ID             UUID   `db:"id" json:"id"`
	AuthorID       string `db:"author_id" json:"author_id"`
	Title          string `db:"title" json:"title"`
	Slug           string `db:"slug" json:"slug"`
	Excerpt        string `db:"excerpt" json:"excerpt,omitempty"`
	Content        string `db:"content" json:"content"`
	CoverImageURL  string `db:"cover_image_url" json:"cover_image_url,omitempty"`
	CategoryID     string `db:"category_id" json:"category_id,omitempty"`
	Status         string `db:"status" json:"status"`
	PublishedAt    string `db:"published_at" json:"published_at,omitempty"`
	SEOTitle       string `db:"seo_title" json:"seo_title,omitempty"`
	SEODescription string `db:"seo_description" json:"seo_description,omitempty"`
	CanonicalURL   string `db:"canonical_url" json:"canonical_url,omitempty"`
	NoIndex        bool   `db:"no_index" json:"no_index"`
	CreatedAt      int64  `db:"created_at" json:"created_at"`
	UpdatedAt      int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Post.
func (Post) TableName() string {
	return "posts"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (p *Post) CreatedAtTime() time.Time {
	return time.Unix(p.CreatedAt, 0)
}

// UpdatedAtTime returns the UpdatedAt as time.Time.
func (p *Post) UpdatedAtTime() time.Time {
	return time.Unix(p.UpdatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (p *Post) Touch() {
	p.UpdatedAt = time.Now().Unix()
}

// Body decodes the stored content column.
func (p *Post) Body() Content {
	return ParseContent(p.Content)
}
