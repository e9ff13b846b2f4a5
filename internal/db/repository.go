// Package db provides CRUD repository operations for Quill data models.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// Repository provides CRUD operations for all models. Frequently used queries
// go through a prepared statement cache.
type Repository struct {
	db *sql.DB

	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Begin starts a transaction on the underlying database.
func (r *Repository) Begin() (*sql.Tx, error) {
	return r.db.Begin()
}

// PrepareStmt gets or creates a prepared statement from the cache, keyed by
// the query string.
func (r *Repository) PrepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := r.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := r.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this, close our duplicate.
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}
	return stmt, nil
}

// Close closes all cached prepared statements.
func (r *Repository) Close() error {
	var firstErr error
	r.stmtCache.Range(func(key, value interface{}) bool {
		stmt := value.(*sql.Stmt)
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// =====================================================
// Post Operations
// =====================================================

const postColumns = `id, author_id, title, slug, excerpt, content, cover_image_url,
	   category_id, status, published_at, seo_title, seo_description,
	   canonical_url, no_index, created_at, updated_at`

// postPatchColumns is the set of columns an update patch may touch.
// Associations (tag_ids, youtube_url) live in side tables and are excluded.
var postPatchColumns = map[string]bool{
	"author_id":       true,
	"title":           true,
	"slug":            true,
	"excerpt":         true,
	"content":         true,
	"cover_image_url": true,
	"category_id":     true,
	"status":          true,
	"published_at":    true,
	"seo_title":       true,
	"seo_description": true,
	"canonical_url":   true,
	"no_index":        true,
}

// PatchColumn reports whether key is a column an update patch may touch.
func PatchColumn(key string) bool {
	return postPatchColumns[key]
}

// CreatePost inserts a new post, assigning its id and timestamps.
func (r *Repository) CreatePost(post *models.Post) error {
	now := time.Now().Unix()
	post.ID = models.UUID(uuid.New())
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.StatusDraft
	}

	query := `
	INSERT INTO posts (` + postColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, post.ID, post.AuthorID, post.Title, post.Slug,
		post.Excerpt, post.Content, post.CoverImageURL, nullable(post.CategoryID),
		post.Status, nullable(post.PublishedAt), post.SEOTitle, post.SEODescription,
		post.CanonicalURL, post.NoIndex, post.CreatedAt, post.UpdatedAt)
	return err
}

// GetPost retrieves a post by ID.
func (r *Repository) GetPost(id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	post, err := scanPost(stmt.QueryRow(id))
	if err != nil {
		return nil, err
	}
	return post, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var categoryID, publishedAt sql.NullString
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt,
		&post.Content, &post.CoverImageURL, &categoryID, &post.Status,
		&publishedAt, &post.SEOTitle, &post.SEODescription, &post.CanonicalURL,
		&post.NoIndex, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		post.CategoryID = categoryID.String
	}
	if publishedAt.Valid {
		post.PublishedAt = publishedAt.String
	}
	return &post, nil
}

// ListPosts returns posts newest-first with pagination and optional filters.
func (r *Repository) ListPosts(limit, offset int, fb *FilterBuilder) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []interface{}
	if fb != nil && fb.HasFilters() {
		where, filterArgs := fb.Build()
		query += " WHERE " + where
		args = append(args, filterArgs...)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CountPosts returns the total number of posts matching the filters.
func (r *Repository) CountPosts(fb *FilterBuilder) (int, error) {
	query := `SELECT COUNT(*) FROM posts`
	var args []interface{}
	if fb != nil && fb.HasFilters() {
		where, filterArgs := fb.Build()
		query += " WHERE " + where
		args = filterArgs
	}

	var count int
	err := r.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// UpdatePostFieldsTx applies a plain-field patch inside tx. Unknown keys are
// rejected rather than silently dropped, so a bad payload never half-applies.
func (r *Repository) UpdatePostFieldsTx(tx *sql.Tx, id string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	keys := make([]string, 0, len(patch))
	for key := range patch {
		if !postPatchColumns[key] {
			return fmt.Errorf("unknown post column: %s", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sets []string
	var args []interface{}
	for _, key := range keys {
		value, err := columnValue(patch[key])
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		sets = append(sets, key+" = ?")
		args = append(args, value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Unix())
	args = append(args, id)

	query := "UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePost removes a post; associations and version history cascade.
func (r *Repository) DeletePost(id string) error {
	result, err := r.db.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// columnValue converts a JSON-shaped patch value to a bindable column value.
// Object-valued content is stored as its canonical JSON text.
func columnValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return t, nil
	case models.Content:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		if !t.IsTyped() {
			return t.Text(), nil
		}
		return string(data), nil
	case map[string]interface{}:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
