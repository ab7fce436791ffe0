package db

import (
	"log"

	"podstudio/internal/models"
)

// InsertVersion appends a content snapshot. The version number is computed
// inside the insert statement, so two concurrent saves for the same episode
// cannot allocate the same number.
func InsertVersion(episodeID int, snapshot string, changedBy int64, description *string) (*models.Version, error) {
	query := `
		INSERT INTO version_history (episode_id, content_snapshot, changed_by, change_description, version_number)
		SELECT $1, $2, $3, $4, COALESCE(MAX(version_number), 0) + 1
		FROM version_history
		WHERE episode_id = $1
		RETURNING id, episode_id, content_snapshot, changed_by, change_description, version_number, created_at
	`
	v := &models.Version{}
	err := DB.Get(v, query, episodeID, snapshot, changedBy, description)
	if err != nil {
		log.Printf("Error inserting version for episode %d: %v", episodeID, err)
		return nil, err
	}
	return v, nil
}

func GetVersionsByEpisodeID(episodeID int) ([]models.Version, error) {
	query := `
		SELECT id, episode_id, content_snapshot, changed_by, change_description, version_number, created_at
		FROM version_history
		WHERE episode_id = $1
		ORDER BY version_number DESC
	`
	var versions []models.Version
	err := DB.Select(&versions, query, episodeID)
	if err != nil {
		log.Printf("Error getting versions for episode %d: %v", episodeID, err)
		return nil, err
	}
	return versions, nil
}

func GetVersion(episodeID, versionNumber int) (*models.Version, error) {
	v := &models.Version{}
	query := `
		SELECT id, episode_id, content_snapshot, changed_by, change_description, version_number, created_at
		FROM version_history
		WHERE episode_id = $1 AND version_number = $2
	`
	err := DB.Get(v, query, episodeID, versionNumber)
	if err != nil {
		return nil, err
	}
	return v, nil
}
