package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillcms/quill/internal/db"
	"github.com/quillcms/quill/internal/models"
)

// PortfolioHandler handles the about-page side data: projects, work history,
// skills, and social links.
type PortfolioHandler struct {
	repo *db.Repository
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(repo *db.Repository) *PortfolioHandler {
	return &PortfolioHandler{repo: repo}
}

// Overview handles GET /api/portfolio: all four lists in one response.
func (h *PortfolioHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projects, err := h.repo.ListProjects()
	if err != nil {
		writeError(w, err)
		return
	}
	experience, err := h.repo.ListExperience()
	if err != nil {
		writeError(w, err)
		return
	}
	skills, err := h.repo.ListSkills()
	if err != nil {
		writeError(w, err)
		return
	}
	links, err := h.repo.ListSocialLinks()
	if err != nil {
		writeError(w, err)
		return
	}

	if projects == nil {
		projects = []*models.Project{}
	}
	if experience == nil {
		experience = []*models.Experience{}
	}
	if skills == nil {
		skills = []*models.Skill{}
	}
	if links == nil {
		links = []*models.SocialLink{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":     projects,
		"experience":   experience,
		"skills":       skills,
		"social_links": links,
	})
}

// Projects handles POST /api/portfolio/projects.
func (h *PortfolioHandler) Projects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.repo.CreateProject(&project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Project handles PUT and DELETE on /api/portfolio/projects/{id}.
func (h *PortfolioHandler) Project(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var project models.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		project.ID = models.UUID(id)
		if err := h.repo.UpdateProject(&project); err != nil {
			h.writeRowError(w, err, "Project")
			return
		}
		writeJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		if err := h.repo.DeleteProject(id); err != nil {
			h.writeRowError(w, err, "Project")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Experience handles POST /api/portfolio/experience.
func (h *PortfolioHandler) Experience(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var entry models.Experience
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.repo.CreateExperience(&entry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ExperienceEntry handles PUT and DELETE on /api/portfolio/experience/{id}.
func (h *PortfolioHandler) ExperienceEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var entry models.Experience
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		entry.ID = models.UUID(id)
		if err := h.repo.UpdateExperience(&entry); err != nil {
			h.writeRowError(w, err, "Experience entry")
			return
		}
		writeJSON(w, http.StatusOK, entry)

	case http.MethodDelete:
		if err := h.repo.DeleteExperience(id); err != nil {
			h.writeRowError(w, err, "Experience entry")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Skills handles POST /api/portfolio/skills.
func (h *PortfolioHandler) Skills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var skill models.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.repo.CreateSkill(&skill); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// Skill handles PUT and DELETE on /api/portfolio/skills/{id}.
func (h *PortfolioHandler) Skill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var skill models.Skill
		if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		skill.ID = models.UUID(id)
		if err := h.repo.UpdateSkill(&skill); err != nil {
			h.writeRowError(w, err, "Skill")
			return
		}
		writeJSON(w, http.StatusOK, skill)

	case http.MethodDelete:
		if err := h.repo.DeleteSkill(id); err != nil {
			h.writeRowError(w, err, "Skill")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SocialLinks handles POST /api/portfolio/social-links.
func (h *PortfolioHandler) SocialLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var link models.SocialLink
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.repo.CreateSocialLink(&link); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// SocialLink handles PUT and DELETE on /api/portfolio/social-links/{id}.
func (h *PortfolioHandler) SocialLink(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var link models.SocialLink
		if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		link.ID = models.UUID(id)
		if err := h.repo.UpdateSocialLink(&link); err != nil {
			h.writeRowError(w, err, "Social link")
			return
		}
		writeJSON(w, http.StatusOK, link)

	case http.MethodDelete:
		if err := h.repo.DeleteSocialLink(id); err != nil {
			h.writeRowError(w, err, "Social link")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PortfolioHandler) writeRowError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, what+" not found", http.StatusNotFound)
		return
	}
	writeError(w, err)
}
