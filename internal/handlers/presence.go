package handlers

import (
	"net/http"

	"podstudio/internal/models"
)

type heartbeatRequest struct {
	Cursor *models.CursorPosition `json:"cursor,omitempty"`
}

// Heartbeat refreshes the caller's presence row. Clients call it every 30
// seconds while an episode is open and immediately on cursor movement.
func (h *Handlers) Heartbeat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	var req heartbeatRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	if err := h.tracker.Heartbeat(user.ID, id, req.Cursor); err != nil {
		http.Error(w, "Failed to record heartbeat", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Depart is the clean-unmount path; it marks the caller inactive.
func (h *Handlers) Depart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	h.tracker.Depart(user.ID, id)
	w.WriteHeader(http.StatusOK)
}

// GetActiveUsers lists live collaborators, never including the caller.
func (h *Handlers) GetActiveUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	active, err := h.tracker.ActiveOthers(id, user.ID)
	if err != nil {
		http.Error(w, "Failed to load presence", http.StatusInternalServerError)
		return
	}
	if active == nil {
		active = []models.UserPresence{}
	}

	writeJSON(w, http.StatusOK, active)
}
