package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillcms/quill/internal/db"
	"github.com/quillcms/quill/internal/models"
)

// PageHandler handles static page operations.
type PageHandler struct {
	repo *db.Repository
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(repo *db.Repository) *PageHandler {
	return &PageHandler{repo: repo}
}

// Collection handles GET and POST on /api/pages.
func (h *PageHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pages, err := h.repo.ListPages()
		if err != nil {
			writeError(w, err)
			return
		}
		if pages == nil {
			pages = []*models.Page{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": pages})

	case http.MethodPost:
		var request struct {
			Title   string `json:"title"`
			Slug    string `json:"slug"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		page := &models.Page{Title: request.Title, Slug: request.Slug, Content: request.Content}
		if err := h.repo.CreatePage(page); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, page)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/pages/{id}.
func (h *PageHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		page, err := h.repo.GetPage(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Page not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)

	case http.MethodPut:
		var request struct {
			Title   *string `json:"title"`
			Slug    *string `json:"slug"`
			Content *string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		page, err := h.repo.UpdatePage(id, request.Title, request.Slug, request.Content)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Page not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)

	case http.MethodDelete:
		if err := h.repo.DeletePage(id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Page not found", http.StatusNotFound)
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
