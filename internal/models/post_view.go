// Package models provides data model definitions for Quill.
package models

import "time"

// PostView is one recorded read of a post, used for the per-post view counter.
type PostView struct {
	ID       UUID   `db:"id" json:"id"`
	PostID   UUID   `db:"post_id" json:"post_id"`
	Source   string `db:"source" json:"source,omitempty"`
	ViewedAt int64  `db:"viewed_at" json:"viewed_at"`
}

// TableName returns the table name for PostView.
func (PostView) TableName() string {
	return "post_views"
}

// ViewedAtTime returns the ViewedAt as time.Time.
func (v *PostView) ViewedAtTime() time.Time {
	return time.Unix(v.ViewedAt, 0)
}
