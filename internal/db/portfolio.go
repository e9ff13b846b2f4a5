// Package db provides portfolio repository operations (projects, experience,
// skills, social links). All four lists order by position, then recency.
package db

import (
	"database/sql"
	"time"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/uuid"
)

// =====================================================
// Project Operations
// =====================================================

// CreateProject creates a new portfolio project.
func (r *Repository) CreateProject(p *models.Project) error {
	now := time.Now().Unix()
	p.ID = models.UUID(uuid.New())
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
	INSERT INTO projects (id, title, description, url, image_url, position, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, p.ID, p.Title, p.Description, p.URL, p.ImageURL,
		p.Position, p.CreatedAt, p.UpdatedAt)
	return err
}

// ListProjects returns all projects in display order.
func (r *Repository) ListProjects() ([]*models.Project, error) {
	query := `
	SELECT id, title, description, url, image_url, position, created_at, updated_at
	FROM projects ORDER BY position, created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.URL, &p.ImageURL,
			&p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// UpdateProject updates an existing project.
func (r *Repository) UpdateProject(p *models.Project) error {
	p.Touch()
	query := `
	UPDATE projects SET title = ?, description = ?, url = ?, image_url = ?, position = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := r.db.Exec(query, p.Title, p.Description, p.URL, p.ImageURL,
		p.Position, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteProject removes a project.
func (r *Repository) DeleteProject(id string) error {
	return r.deleteByID("projects", id)
}

// =====================================================
// Experience Operations
// =====================================================

// CreateExperience creates a new work-history entry.
func (r *Repository) CreateExperience(e *models.Experience) error {
	now := time.Now().Unix()
	e.ID = models.UUID(uuid.New())
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
	INSERT INTO experience (id, role, company, summary, started_at, ended_at, position, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, e.ID, e.Role, e.Company, e.Summary,
		nullable(e.StartedAt), nullable(e.EndedAt), e.Position, e.CreatedAt, e.UpdatedAt)
	return err
}

// ListExperience returns all work-history entries in display order.
func (r *Repository) ListExperience() ([]*models.Experience, error) {
	query := `
	SELECT id, role, company, summary, started_at, ended_at, position, created_at, updated_at
	FROM experience ORDER BY position, created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Experience
	for rows.Next() {
		var e models.Experience
		var startedAt, endedAt sql.NullString
		if err := rows.Scan(&e.ID, &e.Role, &e.Company, &e.Summary, &startedAt,
			&endedAt, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.StartedAt = startedAt.String
		e.EndedAt = endedAt.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// UpdateExperience updates an existing work-history entry.
func (r *Repository) UpdateExperience(e *models.Experience) error {
	e.Touch()
	query := `
	UPDATE experience SET role = ?, company = ?, summary = ?, started_at = ?, ended_at = ?, position = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := r.db.Exec(query, e.Role, e.Company, e.Summary,
		nullable(e.StartedAt), nullable(e.EndedAt), e.Position, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteExperience removes a work-history entry.
func (r *Repository) DeleteExperience(id string) error {
	return r.deleteByID("experience", id)
}

// =====================================================
// Skill Operations
// =====================================================

// CreateSkill creates a new skill.
func (r *Repository) CreateSkill(s *models.Skill) error {
	now := time.Now().Unix()
	s.ID = models.UUID(uuid.New())
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO skills (id, name, level, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, s.ID, s.Name, s.Level, s.Position, s.CreatedAt, s.UpdatedAt)
	return err
}

// ListSkills returns all skills in display order.
func (r *Repository) ListSkills() ([]*models.Skill, error) {
	query := `SELECT id, name, level, position, created_at, updated_at FROM skills ORDER BY position, name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []*models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Level, &s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, &s)
	}
	return skills, rows.Err()
}

// UpdateSkill updates an existing skill.
func (r *Repository) UpdateSkill(s *models.Skill) error {
	s.Touch()
	query := `UPDATE skills SET name = ?, level = ?, position = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, s.Name, s.Level, s.Position, s.UpdatedAt, s.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSkill removes a skill.
func (r *Repository) DeleteSkill(id string) error {
	return r.deleteByID("skills", id)
}

// =====================================================
// Social Link Operations
// =====================================================

// CreateSocialLink creates a new social link.
func (r *Repository) CreateSocialLink(l *models.SocialLink) error {
	now := time.Now().Unix()
	l.ID = models.UUID(uuid.New())
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `INSERT INTO social_links (id, label, url, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, l.ID, l.Label, l.URL, l.Position, l.CreatedAt, l.UpdatedAt)
	return err
}

// ListSocialLinks returns all social links in display order.
func (r *Repository) ListSocialLinks() ([]*models.SocialLink, error) {
	query := `SELECT id, label, url, position, created_at, updated_at FROM social_links ORDER BY position, label`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.SocialLink
	for rows.Next() {
		var l models.SocialLink
		if err := rows.Scan(&l.ID, &l.Label, &l.URL, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, &l)
	}
	return links, rows.Err()
}

// UpdateSocialLink updates an existing social link.
func (r *Repository) UpdateSocialLink(l *models.SocialLink) error {
	l.Touch()
	query := `UPDATE social_links SET label = ?, url = ?, position = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.Exec(query, l.Label, l.URL, l.Position, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSocialLink removes a social link.
func (r *Repository) DeleteSocialLink(id string) error {
	return r.deleteByID("social_links", id)
}

// deleteByID removes one row from a portfolio table.
func (r *Repository) deleteByID(table, id string) error {
	result, err := r.db.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
