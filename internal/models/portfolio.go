// Package models provides data model definitions for Quill.
package models

import "time"

// Project is a portfolio project entry, ordered by Position on the landing page.
type Project struct {
	ID          UUID   `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description,omitempty"`
	URL         string `db:"url" json:"url,omitempty"`
	ImageURL    string `db:"image_url" json:"image_url,omitempty"`
	Position    int    `db:"position" json:"position"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
	UpdatedAt   int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Project.
func (Project) TableName() string { return "projects" }

// Touch updates the UpdatedAt timestamp.
func (p *Project) Touch() { p.UpdatedAt = time.Now().Unix() }

// Experience is a work-history entry. StartedAt/EndedAt are display strings
// ("2023-04"); an empty EndedAt means a current role.
type Experience struct {
	ID        UUID   `db:"id" json:"id"`
	Role      string `db:"role" json:"role"`
	Company   string `db:"company" json:"company,omitempty"`
	Summary   string `db:"summary" json:"summary,omitempty"`
	StartedAt string `db:"started_at" json:"started_at,omitempty"`
	EndedAt   string `db:"ended_at" json:"ended_at,omitempty"`
	Position  int    `db:"position" json:"position"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Experience.
func (Experience) TableName() string { return "experience" }

// Touch updates the UpdatedAt timestamp.
func (e *Experience) Touch() { e.UpdatedAt = time.Now().Unix() }

// Skill is a named skill with a 0-100 level.
type Skill struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Level     int    `db:"level" json:"level"`
	Position  int    `db:"position" json:"position"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Skill.
func (Skill) TableName() string { return "skills" }

// Touch updates the UpdatedAt timestamp.
func (s *Skill) Touch() { s.UpdatedAt = time.Now().Unix() }

// SocialLink is an external profile link shown on the landing page.
type SocialLink struct {
	ID        UUID   `db:"id" json:"id"`
	Label     string `db:"label" json:"label"`
	URL       string `db:"url" json:"url"`
	Position  int    `db:"position" json:"position"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for SocialLink.
func (SocialLink) TableName() string { return "social_links" }

// Touch updates the UpdatedAt timestamp.
func (l *SocialLink) Touch() { l.UpdatedAt = time.Now().Unix() }
