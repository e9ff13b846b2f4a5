package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quillcms/quill/internal/db"
	"github.com/quillcms/quill/internal/models"
)

// TaxonomyHandler handles tag and category operations.
type TaxonomyHandler struct {
	repo   *db.Repository
	events Broadcaster
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(repo *db.Repository, events Broadcaster) *TaxonomyHandler {
	if events == nil {
		events = NopBroadcaster()
	}
	return &TaxonomyHandler{repo: repo, events: events}
}

type taxonomyRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (req *taxonomyRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Tags handles GET and POST on /api/tags.
func (h *TaxonomyHandler) Tags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := h.repo.ListTags()
		if err != nil {
			writeError(w, err)
			return
		}
		if tags == nil {
			tags = []*models.Tag{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": tags})

	case http.MethodPost:
		var request taxonomyRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := request.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tag := &models.Tag{Name: strings.TrimSpace(request.Name), Slug: request.Slug}
		if err := h.repo.CreateTag(tag); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tag)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Tag handles GET, PUT and DELETE on /api/tags/{id}.
func (h *TaxonomyHandler) Tag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		tag, err := h.repo.GetTag(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Tag not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tag)

	case http.MethodPut:
		tag, err := h.repo.GetTag(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Tag not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}

		var request taxonomyRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if request.Name != "" {
			tag.Name = strings.TrimSpace(request.Name)
		}
		if request.Slug != "" {
			tag.Slug = request.Slug
		}
		if err := h.repo.UpdateTag(tag); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tag)

	case http.MethodDelete:
		if err := h.repo.DeleteTag(id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Tag not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Categories handles GET and POST on /api/categories.
func (h *TaxonomyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := h.repo.ListCategories()
		if err != nil {
			writeError(w, err)
			return
		}
		if categories == nil {
			categories = []*models.Category{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": categories})

	case http.MethodPost:
		var request taxonomyRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := request.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		category := &models.Category{Name: strings.TrimSpace(request.Name), Slug: request.Slug}
		if err := h.repo.CreateCategory(category); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, category)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Category handles GET, PUT and DELETE on /api/categories/{id}.
func (h *TaxonomyHandler) Category(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		category, err := h.repo.GetCategory(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Category not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)

	case http.MethodPut:
		category, err := h.repo.GetCategory(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Category not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}

		var request taxonomyRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if request.Name != "" {
			category.Name = strings.TrimSpace(request.Name)
		}
		if request.Slug != "" {
			category.Slug = request.Slug
		}
		if err := h.repo.UpdateCategory(category); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)

	case http.MethodDelete:
		if err := h.repo.DeleteCategory(id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Category not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
