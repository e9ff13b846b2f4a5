// Package models provides data model definitions for Quill.
package models

import "time"

// Category groups posts; a post carries at most one category id.
type Category struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().Unix()
}
