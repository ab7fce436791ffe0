package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"podstudio/internal/db"
	"podstudio/internal/models"
)

func episodeID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

type createEpisodeRequest struct {
	WorkspaceID int    `json:"workspace_id"`
	Title       string `json:"title"`
}

func (h *Handlers) CreateEpisode(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req createEpisodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.WorkspaceID == 0 {
		http.Error(w, "workspace_id and title are required", http.StatusBadRequest)
		return
	}

	member, err := db.GetTeamMember(req.WorkspaceID, user.ID)
	if err != nil {
		http.Error(w, "Not a member of this workspace", http.StatusForbidden)
		return
	}
	if !member.Role.Permissions().CanCreateEpisodes {
		http.Error(w, "Role cannot create episodes", http.StatusForbidden)
		return
	}

	episode, err := db.CreateEpisode(req.WorkspaceID, req.Title, user.ID)
	if err != nil {
		http.Error(w, "Failed to create episode", http.StatusInternalServerError)
		return
	}

	// The creator is always a collaborator; role stays the workspace one.
	if _, err := db.AddCollaborator(episode.ID, user.ID, nil); err != nil {
		log.Printf("Failed to add creator as collaborator on episode %d: %v", episode.ID, err)
	}

	writeJSON(w, http.StatusCreated, episode)
}

func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, episode)
}

func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := strconv.Atoi(r.URL.Query().Get("workspace_id"))
	if err != nil {
		http.Error(w, "workspace_id query parameter is required", http.StatusBadRequest)
		return
	}

	episodes, err := db.GetEpisodesByWorkspaceID(workspaceID)
	if err != nil {
		http.Error(w, "Failed to list episodes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, episodes)
}

func (h *Handlers) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
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

	episode, err := db.GetEpisodeByID(id)
	if err != nil {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return
	}

	role, err := db.GetEffectiveRole(id, episode.WorkspaceID, user.ID)
	if err != nil || !role.Permissions().CanDeleteEpisodes {
		http.Error(w, "Role cannot delete episodes", http.StatusForbidden)
		return
	}

	h.autosaver.Cancel(id)
	if err := db.DeleteEpisode(id); err != nil {
		http.Error(w, "Failed to delete episode", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type updateContentRequest struct {
	Content     models.Sections `json:"content"`
	Description *string         `json:"description,omitempty"`
}

// UpdateContent stores the new content immediately and hands it to the
// auto-save coordinator, which snapshots it into version history once the
// edit burst pauses.
func (h *Handlers) UpdateContent(w http.ResponseWriter, r *http.Request) {
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

	var req updateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := db.UpdateEpisodeContent(id, req.Content); err != nil {
		http.Error(w, "Failed to update content", http.StatusInternalServerError)
		return
	}

	h.autosaver.Record(id, user.ID, req.Content, req.Description)

	w.WriteHeader(http.StatusOK)
}
