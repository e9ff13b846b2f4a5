// Package db provides static page repository operations.
package db

import (
	"database/sql"
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// CreatePage creates a new page. A blank title becomes "Untitled".
func (r *Repository) CreatePage(page *models.Page) error {
	now := time.Now().Unix()
	page.ID = models.UUID(uuid.New())
	page.CreatedAt = now
	page.UpdatedAt = now
	if page.Title == "" {
		page.Title = "Untitled"
	}

	query := `INSERT INTO pages (id, title, slug, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, page.ID, page.Title, page.Slug, page.Content,
		page.CreatedAt, page.UpdatedAt)
	return err
}

// GetPage retrieves a page by ID.
func (r *Repository) GetPage(id string) (*models.Page, error) {
	query := `SELECT id, title, slug, content, created_at, updated_at FROM pages WHERE id = ?`
	var page models.Page
	err := r.db.QueryRow(query, id).Scan(&page.ID, &page.Title, &page.Slug,
		&page.Content, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPages returns all pages ordered by title.
func (r *Repository) ListPages() ([]*models.Page, error) {
	query := `SELECT id, title, slug, content, created_at, updated_at FROM pages ORDER BY title`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.Title, &page.Slug, &page.Content,
			&page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// UpdatePage applies a patch-style update: only non-nil fields change, and a
// blank title becomes "Untitled".
func (r *Repository) UpdatePage(id string, title, slug, content *string) (*models.Page, error) {
	page, err := r.GetPage(id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		page.Title = *title
		if page.Title == "" {
			page.Title = "Untitled"
		}
	}
	if slug != nil {
		page.Slug = *slug
	}
	if content != nil {
		page.Content = *content
	}
	page.Touch()

	query := `UPDATE pages SET title = ?, slug = ?, content = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, page.Title, page.Slug, page.Content, page.UpdatedAt, page.ID)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return page, nil
}

// DeletePage removes a page.
func (r *Repository) DeletePage(id string) error {
	result, err := r.db.Exec("DELETE FROM pages WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
