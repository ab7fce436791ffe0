package db

import (
	"log"

	"podstudio/internal/models"
)

func CreateWorkspace(name string, description *string, ownerID int64) (*models.Workspace, error) {
	query := `
		INSERT INTO workspaces (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING *
	`
	ws := &models.Workspace{}
	err := DB.Get(ws, query, name, description, ownerID)
	if err != nil {
		log.Printf("Error creating workspace %q for user %d: %v", name, ownerID, err)
		return nil, err
	}
	return ws, nil
}

func GetWorkspaceByID(id int) (models.Workspace, error) {
	ws := models.Workspace{}
	err := DB.Get(&ws, "SELECT * FROM workspaces WHERE id = $1", id)
	return ws, err
}

func GetWorkspaceByFeedUUID(uuid string) (models.Workspace, error) {
	ws := models.Workspace{}
	err := DB.Get(&ws, "SELECT * FROM workspaces WHERE feed_uuid = $1", uuid)
	return ws, err
}

func GetTeamMember(workspaceID int, userID int64) (models.TeamMember, error) {
	member := models.TeamMember{}
	err := DB.Get(&member, "SELECT * FROM team_members WHERE workspace_id = $1 AND user_id = $2", workspaceID, userID)
	return member, err
}

func AddTeamMember(workspaceID int, userID int64, role models.Role) (*models.TeamMember, error) {
	query := `
		INSERT INTO team_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, workspace_id, user_id, role, created_at
	`
	member := &models.TeamMember{}
	err := DB.Get(member, query, workspaceID, userID, role)
	if err != nil {
		log.Printf("Error adding team member to workspace %d: %v", workspaceID, err)
		return nil, err
	}
	return member, nil
}

func GetTeamMembersByWorkspaceID(workspaceID int) ([]models.TeamMember, error) {
	query := `
		SELECT id, workspace_id, user_id, role, created_at
		FROM team_members
		WHERE workspace_id = $1
		ORDER BY created_at
	`
	var members []models.TeamMember
	err := DB.Select(&members, query, workspaceID)
	if err != nil {
		log.Printf("Error getting team members for workspace %d: %v", workspaceID, err)
		return nil, err
	}
	return members, nil
}

// GetCollaborators returns everyone explicitly attached to the episode.
func GetCollaborators(episodeID int) ([]models.EpisodeCollaborator, error) {
	query := `
		SELECT id, episode_id, user_id, role, created_at
		FROM episode_collaborators
		WHERE episode_id = $1
		ORDER BY created_at
	`
	var collaborators []models.EpisodeCollaborator
	err := DB.Select(&collaborators, query, episodeID)
	if err != nil {
		log.Printf("Error getting collaborators for episode %d: %v", episodeID, err)
		return nil, err
	}
	return collaborators, nil
}

func AddCollaborator(episodeID int, userID int64, role *models.Role) (*models.EpisodeCollaborator, error) {
	query := `
		INSERT INTO episode_collaborators (episode_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (episode_id, user_id) DO UPDATE SET role = EXCLUDED.role
		RETURNING id, episode_id, user_id, role, created_at
	`
	c := &models.EpisodeCollaborator{}
	err := DB.Get(c, query, episodeID, userID, role)
	if err != nil {
		log.Printf("Error adding collaborator to episode %d: %v", episodeID, err)
		return nil, err
	}
	return c, nil
}

// GetEffectiveRole resolves a user's role for an episode: the per-episode
// collaborator override wins, otherwise the workspace team role applies.
func GetEffectiveRole(episodeID int, workspaceID int, userID int64) (models.Role, error) {
	var role models.Role
	query := `
		SELECT COALESCE(
			(SELECT role FROM episode_collaborators WHERE episode_id = $1 AND user_id = $3),
			(SELECT role FROM team_members WHERE workspace_id = $2 AND user_id = $3),
			''
		)
	`
	err := DB.Get(&role, query, episodeID, workspaceID, userID)
	if err != nil {
		log.Printf("Error resolving role for user %d on episode %d: %v", userID, episodeID, err)
		return "", err
	}
	return role, nil
}
