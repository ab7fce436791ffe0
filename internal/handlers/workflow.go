package handlers

import (
	"errors"
	"net/http"

	"podstudio/internal/db"
	"podstudio/internal/models"
	"podstudio/internal/workflow"
)

type transitionRequest struct {
	Target models.WorkflowStatus `json:"target"`
	Notes  *string               `json:"notes,omitempty"`
}

func (h *Handlers) RequestTransition(w http.ResponseWriter, r *http.Request) {
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

	var req transitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.engine.RequestTransition(id, req.Target, user.ID, req.Notes)
	switch {
	case errors.Is(err, workflow.ErrTransitionNotAllowed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, workflow.ErrRoleDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case errors.Is(err, workflow.ErrStatusConflict):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Failed to apply transition", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

type workflowView struct {
	CurrentStatus  models.WorkflowStatus   `json:"current_status"`
	AllowedTargets []models.WorkflowStatus `json:"allowed_targets"`
	Progress       workflow.Progress       `json:"progress"`
	History        []models.WorkflowState  `json:"history"`
}

// GetWorkflow returns everything the review UI needs in one read: status,
// legal next steps, the progress indicator and the transition history.
func (h *Handlers) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	episode, err := db.GetEpisodeByID(id)
	if err != nil {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}

	history, err := db.GetWorkflowHistory(id)
	if err != nil {
		http.Error(w, "Failed to load workflow history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, workflowView{
		CurrentStatus:  episode.CurrentStatus,
		AllowedTargets: workflow.AllowedTargets(episode.CurrentStatus),
		Progress:       workflow.ProgressFor(episode.CurrentStatus),
		History:        history,
	})
}
