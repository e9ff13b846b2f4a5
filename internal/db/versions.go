// Package db provides post version history storage.
package db

import (
	"database/sql"
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// InsertPostVersionTx appends a version row inside tx. The snapshot must be
// the full pre-update field map serialized as JSON, never a patch. Version
// timestamps are unix milliseconds so that back-to-back updates still order.
func (r *Repository) InsertPostVersionTx(tx *sql.Tx, version *models.PostVersion) error {
	version.ID = models.UUID(uuid.New())
	version.CreatedAt = time.Now().UnixMilli()

	query := `
	INSERT INTO post_versions (id, post_id, author_id, content_snapshot, created_at)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, version.ID, version.PostID, version.AuthorID,
		version.ContentSnapshot, version.CreatedAt)
	return err
}

// ListPostVersions returns every version of a post, newest first. Equal
// timestamps break deterministically on id. Returns an empty slice, not an
// error, when the post has no history yet.
func (r *Repository) ListPostVersions(postID string) ([]models.PostVersion, error) {
	query := `
	SELECT id, post_id, author_id, content_snapshot, created_at
	FROM post_versions WHERE post_id = ?
	ORDER BY created_at DESC, id DESC
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := []models.PostVersion{}
	for rows.Next() {
		var v models.PostVersion
		if err := rows.Scan(&v.ID, &v.PostID, &v.AuthorID, &v.ContentSnapshot, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetPostVersion retrieves a single version row by id.
func (r *Repository) GetPostVersion(id string) (*models.PostVersion, error) {
	query := `
	SELECT id, post_id, author_id, content_snapshot, created_at
	FROM post_versions WHERE id = ?
	`
	var v models.PostVersion
	err := r.db.QueryRow(query, id).Scan(&v.ID, &v.PostID, &v.AuthorID, &v.ContentSnapshot, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CountPostVersions returns the number of versions stored for a post.
func (r *Repository) CountPostVersions(postID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM post_versions WHERE post_id = ?", postID).Scan(&count)
	return count, err
}

// PruneVersions deletes all but the newest keep versions of a post. History
// is unbounded by default; nothing calls this automatically.
func (r *Repository) PruneVersions(postID string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	query := `
	DELETE FROM post_versions WHERE post_id = ? AND id NOT IN (
		SELECT id FROM post_versions WHERE post_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?
	)
	`
	_, err := r.db.Exec(query, postID, postID, keep)
	return err
}
