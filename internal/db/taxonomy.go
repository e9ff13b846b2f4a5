// Package db provides tag and category repository operations.
package db

import (
	"database/sql"
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// =====================================================
// Tag Operations
// =====================================================

// CreateTag creates a new tag.
func (r *Repository) CreateTag(tag *models.Tag) error {
	now := time.Now().Unix()
	tag.ID = models.UUID(uuid.New())
	tag.CreatedAt = now
	tag.UpdatedAt = now

	query := `INSERT INTO tags (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt)
	return err
}

// GetTag retrieves a tag by ID.
func (r *Repository) GetTag(id string) (*models.Tag, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM tags WHERE id = ?`
	var tag models.Tag
	err := r.db.QueryRow(query, id).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags returns all tags ordered by name.
func (r *Repository) ListTags() ([]*models.Tag, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM tags ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// UpdateTag updates an existing tag.
func (r *Repository) UpdateTag(tag *models.Tag) error {
	tag.Touch()
	query := `UPDATE tags SET name = ?, slug = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, tag.Name, tag.Slug, tag.UpdatedAt, tag.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTag removes a tag; post_tags rows cascade.
func (r *Repository) DeleteTag(id string) error {
	result, err := r.db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// =====================================================
// Category Operations
// =====================================================

// CreateCategory creates a new category.
func (r *Repository) CreateCategory(category *models.Category) error {
	now := time.Now().Unix()
	category.ID = models.UUID(uuid.New())
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `INSERT INTO categories (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, category.ID, category.Name, category.Slug,
		category.CreatedAt, category.UpdatedAt)
	return err
}

// GetCategory retrieves a category by ID.
func (r *Repository) GetCategory(id string) (*models.Category, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = ?`
	var category models.Category
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.Slug,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories() ([]*models.Category, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// UpdateCategory updates an existing category.
func (r *Repository) UpdateCategory(category *models.Category) error {
	category.Touch()
	query := `UPDATE categories SET name = ?, slug = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, category.Name, category.Slug, category.UpdatedAt, category.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCategory removes a category. Posts referencing it keep a dangling
// category_id; the admin UI treats that as "uncategorized".
func (r *Repository) DeleteCategory(id string) error {
	result, err := r.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
