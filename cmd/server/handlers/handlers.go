// Package handlers provides the REST API handlers for the admin server.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/quillcms/quill/internal/errors"
)

// Broadcaster pushes events to connected admin clients. The WebSocket hub
// implements it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(event string, data map[string]interface{})
}

// nopBroadcaster drops all events.
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, map[string]interface{}) {}

// NopBroadcaster returns a Broadcaster that discards everything.
func NopBroadcaster() Broadcaster {
	return nopBroadcaster{}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps application error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrPostNotFound, apperrors.ErrVersionNotFound, apperrors.ErrTagNotFound,
		apperrors.ErrCategoryNotFound, apperrors.ErrPageNotFound, apperrors.ErrEntryNotFound,
		apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrPostInvalid, apperrors.ErrTagInvalid, apperrors.ErrInvalid,
		apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrDuplicate, apperrors.ErrConstraint:
		status = http.StatusConflict
	}

	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(apperrors.CodeOf(err)),
			"message": err.Error(),
		},
	})
}
