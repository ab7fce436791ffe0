package db

import (
	"log"

	"podstudio/internal/models"
)

// UpdateEpisodeStatus moves an episode from expected to next with a
// conditional update. It returns false when the row no longer carries the
// expected status, which is how a racing transition loses.
func UpdateEpisodeStatus(episodeID int, expected, next models.WorkflowStatus) (bool, error) {
	query := `
		UPDATE episodes
		SET current_status = $1,
		    published_at = CASE WHEN $1 = 'published' THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $2 AND current_status = $3
	`
	res, err := DB.Exec(query, next, episodeID, expected)
	if err != nil {
		log.Printf("Error updating status for episode %d: %v", episodeID, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AppendWorkflowState records one transition in the append-only history.
func AppendWorkflowState(episodeID int, status models.WorkflowStatus, changedBy int64, notes *string) (models.WorkflowState, error) {
	state := models.WorkflowState{}
	query := `
		INSERT INTO workflow_states (episode_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, episode_id, status, changed_by, notes, created_at
	`
	err := DB.Get(&state, query, episodeID, status, changedBy, notes)
	if err != nil {
		log.Printf("Error appending workflow state for episode %d: %v", episodeID, err)
	}
	return state, err
}

func GetWorkflowHistory(episodeID int) ([]models.WorkflowState, error) {
	query := `
		SELECT id, episode_id, status, changed_by, notes, created_at
		FROM workflow_states
		WHERE episode_id = $1
		ORDER BY created_at DESC
	`
	var history []models.WorkflowState
	err := DB.Select(&history, query, episodeID)
	if err != nil {
		log.Printf("Error getting workflow history for episode %d: %v", episodeID, err)
		return nil, err
	}
	return history, nil
}
