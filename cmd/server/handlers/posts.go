package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quillcms/quill/internal/changeset"
	"github.com/quillcms/quill/internal/db"
	"github.com/quillcms/quill/internal/diff"
	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/internal/posts"
	"github.com/quillcms/quill/internal/render"
)

// Post event types pushed over the WebSocket hub.
const (
	EventPostCreated      = "post.created"
	EventPostUpdated      = "post.updated"
	EventPostUnchanged    = "post.unchanged"
	EventPostVersionSaved = "post.version_saved"
	EventPostDeleted      = "post.deleted"
)

// PostHandler handles post, version, and view operations.
type PostHandler struct {
	store    *posts.Store
	repo     *db.Repository
	renderer *render.Renderer
	events   Broadcaster
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(store *posts.Store, repo *db.Repository, events Broadcaster) *PostHandler {
	if events == nil {
		events = NopBroadcaster()
	}
	return &PostHandler{
		store:    store,
		repo:     repo,
		renderer: render.NewRenderer(),
		events:   events,
	}
}

// Collection handles GET and POST on /api/posts.
func (h *PostHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/posts
func (h *PostHandler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	fb := db.NewFilterBuilder().
		Status(r.URL.Query().Get("status")).
		Search(r.URL.Query().Get("q")).
		Category(r.URL.Query().Get("category"))

	offset := (page - 1) * perPage
	items, err := h.repo.ListPosts(perPage, offset, fb)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.repo.CountPosts(fb)
	if err != nil {
		writeError(w, err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if items == nil {
		items = []*models.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
	})
}

// create handles POST /api/posts
func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload changeset.FieldMap
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.store.Create(payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.events.Broadcast(EventPostCreated, map[string]interface{}{
		"post_id": post.ID.String(),
		"title":   post.Title,
	})
	writeJSON(w, http.StatusCreated, post)
}

// Item handles GET, PUT and DELETE on /api/posts/{id}.
func (h *PostHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PostHandler) get(w http.ResponseWriter, id string) {
	post, err := h.store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var payload changeset.FieldMap
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, outcome, err := h.store.Update(id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	if outcome == posts.OutcomeUpdated {
		h.events.Broadcast(EventPostUpdated, map[string]interface{}{
			"post_id": id,
			"title":   post.Title,
		})
		h.events.Broadcast(EventPostVersionSaved, map[string]interface{}{
			"post_id": id,
		})
	} else {
		h.events.Broadcast(EventPostUnchanged, map[string]interface{}{
			"post_id": id,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post":    post,
		"outcome": outcome,
	})
}

func (h *PostHandler) delete(w http.ResponseWriter, id string) {
	if err := h.repo.DeletePost(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}

	h.events.Broadcast(EventPostDeleted, map[string]interface{}{"post_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/posts/{id}/versions: the version list with each
// snapshot diffed against its successor.
func (h *PostHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	post, err := h.store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	versions, err := h.store.ListVersions(id)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := diff.Timeline(post.Fields(), versions)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post_id":  id,
		"versions": entries,
		"total":    len(entries),
	})
}

// Version handles GET /api/versions/{id}: one raw snapshot row.
func (h *PostHandler) Version(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	version, err := h.store.GetVersion(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

// HTML handles GET /api/posts/{id}/html: the rendered post body.
func (h *PostHandler) HTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	post, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	html, err := h.renderer.HTML(post.Body())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post_id": post.ID.String(),
		"html":    html,
		"excerpt": h.renderer.Excerpt(post.Body(), 200),
	})
}

// Views handles GET and POST on /api/posts/{id}/views.
func (h *PostHandler) Views(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPost:
		post, err := h.store.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		var request struct {
			Source string `json:"source"`
		}
		// An empty body is fine; the source is optional.
		json.NewDecoder(r.Body).Decode(&request)

		view := &models.PostView{PostID: post.ID, Source: request.Source}
		if err := h.repo.RecordPostView(view); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)

	case http.MethodGet:
		count, err := h.repo.CountPostViews(id)
		if err != nil {
			writeError(w, err)
			return
		}
		recent, err := h.repo.ListPostViews(id, 50)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"post_id": id,
			"total":   count,
			"recent":  recent,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
