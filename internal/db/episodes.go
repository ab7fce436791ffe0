package db

import (
	"log"

	"podstudio/internal/models"
)

func CreateEpisode(workspaceID int, title string, createdBy int64) (models.Episode, error) {
	episode := models.Episode{}
	query := `
		INSERT INTO episodes (workspace_id, title, created_by)
		VALUES ($1, $2, $3)
		RETURNING *
	`
	err := DB.Get(&episode, query, workspaceID, title, createdBy)
	if err != nil {
		log.Printf("Error creating episode in workspace %d: %v", workspaceID, err)
	}
	return episode, err
}

func GetEpisodeByID(id int) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

func GetEpisodesByWorkspaceID(workspaceID int) ([]models.Episode, error) {
	query := `
		SELECT * FROM episodes
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`
	var episodes []models.Episode
	err := DB.Select(&episodes, query, workspaceID)
	if err != nil {
		log.Printf("Error getting episodes for workspace %d: %v", workspaceID, err)
		return nil, err
	}
	return episodes, nil
}

// GetPublishedEpisodes returns a workspace's published episodes, newest first,
// for the public RSS feed.
func GetPublishedEpisodes(workspaceID int) ([]models.Episode, error) {
	query := `
		SELECT * FROM episodes
		WHERE workspace_id = $1 AND current_status = 'published'
		ORDER BY published_at DESC
	`
	var episodes []models.Episode
	err := DB.Select(&episodes, query, workspaceID)
	if err != nil {
		log.Printf("Error getting published episodes for workspace %d: %v", workspaceID, err)
		return nil, err
	}
	return episodes, nil
}

func UpdateEpisodeContent(id int, content models.Sections) error {
	_, err := DB.Exec("UPDATE episodes SET content = $1, updated_at = NOW() WHERE id = $2", content, id)
	if err != nil {
		log.Printf("Error updating content for episode %d: %v", id, err)
	}
	return err
}

func DeleteEpisode(id int) error {
	_, err := DB.Exec("DELETE FROM episodes WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting episode %d: %v", id, err)
	}
	return err
}
