// Package db provides the tag and video side-table synchronizer.
package db

import (
	"database/sql"
	"strings"
)

// execer covers *sql.DB and *sql.Tx for the delete-then-reinsert writes.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// ReplacePostTags reconciles the post_tags rows for a post: every existing
// row is deleted, then one row per tag id is inserted. An empty list clears
// all tags. Idempotent.
func (r *Repository) ReplacePostTags(postID string, tagIDs []string) error {
	return replacePostTags(r.db, postID, tagIDs)
}

// ReplacePostTagsTx is ReplacePostTags inside an existing transaction.
func (r *Repository) ReplacePostTagsTx(tx *sql.Tx, postID string, tagIDs []string) error {
	return replacePostTags(tx, postID, tagIDs)
}

func replacePostTags(e execer, postID string, tagIDs []string) error {
	if _, err := e.Exec("DELETE FROM post_tags WHERE post_id = ?", postID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := e.Exec("INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)", postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// ReplacePostVideo reconciles the zero-or-one related video row for a post.
// A blank URL (after trimming) removes the association.
func (r *Repository) ReplacePostVideo(postID, url string) error {
	return replacePostVideo(r.db, postID, url)
}

// ReplacePostVideoTx is ReplacePostVideo inside an existing transaction.
func (r *Repository) ReplacePostVideoTx(tx *sql.Tx, postID, url string) error {
	return replacePostVideo(tx, postID, url)
}

func replacePostVideo(e execer, postID, url string) error {
	if _, err := e.Exec("DELETE FROM post_videos WHERE post_id = ?", postID); err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	_, err := e.Exec("INSERT INTO post_videos (post_id, url, position) VALUES (?, ?, 1)", postID, url)
	return err
}

// GetPostTagIDs returns the tag ids currently associated with a post. Tag
// order is not meaningful; rows come back in tag-id order for determinism.
func (r *Repository) GetPostTagIDs(postID string) ([]string, error) {
	query := `SELECT tag_id FROM post_tags WHERE post_id = ? ORDER BY tag_id`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tagIDs []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tagID)
	}
	return tagIDs, rows.Err()
}

// GetPostVideoURL returns the related video URL for a post, or "" when none.
func (r *Repository) GetPostVideoURL(postID string) (string, error) {
	query := `SELECT url FROM post_videos WHERE post_id = ? ORDER BY position LIMIT 1`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return "", err
	}

	var url string
	err = stmt.QueryRow(postID).Scan(&url)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// CountPostVideoRows returns the number of video rows for a post.
func (r *Repository) CountPostVideoRows(postID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM post_videos WHERE post_id = ?", postID).Scan(&count)
	return count, err
}
