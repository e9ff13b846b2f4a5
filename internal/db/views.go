// Package db provides post view analytics storage.
package db

import (
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// RecordPostView appends one view row for a post.
func (r *Repository) RecordPostView(view *models.PostView) error {
	view.ID = models.UUID(uuid.New())
	view.ViewedAt = time.Now().Unix()

	query := `INSERT INTO post_views (id, post_id, source, viewed_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.Exec(query, view.ID, view.PostID, view.Source, view.ViewedAt)
	return err
}

// CountPostViews returns the total recorded views of a post.
func (r *Repository) CountPostViews(postID string) (int, error) {
	stmt, err := r.PrepareStmt("SELECT COUNT(*) FROM post_views WHERE post_id = ?")
	if err != nil {
		return 0, err
	}
	var count int
	err = stmt.QueryRow(postID).Scan(&count)
	return count, err
}

// ListPostViews returns the most recent views of a post, newest first.
func (r *Repository) ListPostViews(postID string, limit int) ([]models.PostView, error) {
	query := `
	SELECT id, post_id, source, viewed_at FROM post_views
	WHERE post_id = ? ORDER BY viewed_at DESC, id DESC LIMIT ?
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []models.PostView{}
	for rows.Next() {
		var v models.PostView
		if err := rows.Scan(&v.ID, &v.PostID, &v.Source, &v.ViewedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
