// Package models provides data model definitions for Quill.
package models

import "time"

// Page is a standalone static page (about, contact, legal).
type Page struct {
	ID        UUID   `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Slug      string `db:"slug" json:"slug"`
	Content   string `db:"content" json:"content"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Page.
func (Page) TableName() string {
	return "pages"
}

// Touch updates the UpdatedAt timestamp.
func (p *Page) Touch() {
	p.UpdatedAt = time.Now().Unix()
}

// Body decodes the stored content column.
func (p *Page) Body() Content {
	return ParseContent(p.Content)
}
