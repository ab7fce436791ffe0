package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"podstudio/internal/autosave"
	"podstudio/internal/comments"
	"podstudio/internal/middleware"
	"podstudio/internal/models"
	"podstudio/internal/presence"
	"podstudio/internal/realtime"
	"podstudio/internal/workflow"
	"podstudio/pkg/tasks"
)

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
	engine      *workflow.Engine
	comments    *comments.Store
	tracker     *presence.Tracker
	autosaver   *autosave.Coordinator
	hub         *realtime.Hub
}

func New(asynqClient tasks.TaskEnqueuer, hub *realtime.Hub) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
		engine:      workflow.NewEngine(asynqClient, hub),
		comments:    comments.NewStore(asynqClient, hub),
		tracker:     presence.NewTracker(hub),
		autosaver:   autosave.NewCoordinator(hub),
		hub:         hub,
	}
}

// Close flushes nothing but stops pending auto-save timers.
func (h *Handlers) Close() {
	h.autosaver.Close()
}

func currentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
