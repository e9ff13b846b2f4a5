// Package models provides data model definitions for Quill.
package models

import (
	"encoding/json"
	"time"
)

// PostVersion is an immutable snapshot of a post's full field map, written
// immediately before an update is applied. The newest version paired with the
// live post reconstructs the latest transition.
type PostVersion struct {
	ID              UUID   `db:"id" json:"id"`
	PostID          UUID   `db:"post_id" json:"post_id"`
	AuthorID        string `db:"author_id" json:"author_id"`
	ContentSnapshot string `db:"content_snapshot" json:"content_snapshot"`
	CreatedAt       int64  `db:"created_at" json:"created_at"` // unix milliseconds
}

// TableName returns the table name for PostVersion.
func (PostVersion) TableName() string {
	return "post_versions"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (v *PostVersion) CreatedAtTime() time.Time {
	return time.UnixMilli(v.CreatedAt)
}

// Snapshot decodes the stored field map.
func (v *PostVersion) Snapshot() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if err := json.Unmarshal([]byte(v.ContentSnapshot), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
