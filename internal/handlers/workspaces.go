package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"podstudio/internal/db"
	"podstudio/internal/models"
)

func workspaceID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

type createWorkspaceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateWorkspace creates a workspace owned by the caller, who joins the
// roster as host.
func (h *Handlers) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req createWorkspaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ws, err := db.CreateWorkspace(req.Name, req.Description, user.ID)
	if err != nil {
		http.Error(w, "Failed to create workspace", http.StatusInternalServerError)
		return
	}

	if _, err := db.AddTeamMember(ws.ID, user.ID, models.RoleHost); err != nil {
		log.Printf("Failed to add owner as host of workspace %d: %v", ws.ID, err)
	}

	writeJSON(w, http.StatusCreated, ws)
}

func (h *Handlers) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := workspaceID(r)
	if err != nil {
		http.Error(w, "Invalid workspace ID", http.StatusBadRequest)
		return
	}

	if _, err := db.GetTeamMember(id, user.ID); err != nil {
		http.Error(w, "Not a member of this workspace", http.StatusForbidden)
		return
	}

	ws, err := db.GetWorkspaceByID(id)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, ws)
}

type addMemberRequest struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
}

// AddTeamMember puts a user on the workspace roster. Only members whose role
// carries the manage-team permission may change the roster.
func (h *Handlers) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := workspaceID(r)
	if err != nil {
		http.Error(w, "Invalid workspace ID", http.StatusBadRequest)
		return
	}

	member, err := db.GetTeamMember(id, user.ID)
	if err != nil || !member.Role.Permissions().CanManageTeam {
		http.Error(w, "Role cannot manage the team", http.StatusForbidden)
		return
	}

	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == 0 || !req.Role.Valid() {
		http.Error(w, "user_id and a valid role are required", http.StatusBadRequest)
		return
	}

	added, err := db.AddTeamMember(id, req.UserID, req.Role)
	if err != nil {
		http.Error(w, "Failed to add team member", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (h *Handlers) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := workspaceID(r)
	if err != nil {
		http.Error(w, "Invalid workspace ID", http.StatusBadRequest)
		return
	}

	if _, err := db.GetTeamMember(id, user.ID); err != nil {
		http.Error(w, "Not a member of this workspace", http.StatusForbidden)
		return
	}

	members, err := db.GetTeamMembersByWorkspaceID(id)
	if err != nil {
		http.Error(w, "Failed to list team members", http.StatusInternalServerError)
		return
	}
	if members == nil {
		members = []models.TeamMember{}
	}

	writeJSON(w, http.StatusOK, members)
}
