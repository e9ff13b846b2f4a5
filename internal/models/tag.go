// Package models provides data model definitions for Quill.
package models

import "time"

// Tag represents a label attachable to posts via the post_tags side table.
type Tag struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Tag.
func (Tag) TableName() string {
	return "tags"
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().Unix()
}
