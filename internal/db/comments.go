package db

import (
	"log"

	"podstudio/internal/models"
)

func InsertComment(episodeID int, userID int64, content string, selection *models.TextSelection, parentID *int, priority models.CommentPriority) (*models.Comment, error) {
	query := `
		INSERT INTO episode_comments (episode_id, user_id, content, text_selection, parent_id, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, episode_id, user_id, parent_id, content, text_selection, status, priority, created_at, updated_at
	`
	comment := &models.Comment{}
	err := DB.Get(comment, query, episodeID, userID, content, selection, parentID, priority)
	if err != nil {
		log.Printf("Error inserting comment on episode %d: %v", episodeID, err)
		return nil, err
	}
	return comment, nil
}

// GetCommentsByEpisodeID loads all comments for an episode in creation order,
// each joined with the author's display profile.
func GetCommentsByEpisodeID(episodeID int) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.episode_id, c.user_id, c.parent_id, c.content, c.text_selection,
		       c.status, c.priority, c.created_at, c.updated_at,
		       u.id AS author_id, u.display_name AS author_display_name, u.avatar_url AS author_avatar_url
		FROM episode_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.episode_id = $1
		ORDER BY c.created_at
	`
	rows, err := DB.Queryx(query, episodeID)
	if err != nil {
		log.Printf("Error getting comments for episode %d: %v", episodeID, err)
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		dest := struct {
			*models.Comment
			*models.Author
		}{c, &c.Author}
		if err := rows.StructScan(&dest); err != nil {
			log.Printf("Error scanning comment row: %v", err)
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func GetCommentByID(id int) (*models.Comment, error) {
	comment := &models.Comment{}
	query := `
		SELECT id, episode_id, user_id, parent_id, content, text_selection, status, priority, created_at, updated_at
		FROM episode_comments WHERE id = $1
	`
	err := DB.Get(comment, query, id)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func UpdateCommentStatus(id int, status models.CommentStatus) error {
	_, err := DB.Exec("UPDATE episode_comments SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	if err != nil {
		log.Printf("Error updating status for comment %d: %v", id, err)
	}
	return err
}

// UpsertReaction replaces any prior reaction by the same user on the same
// comment: last write wins, one row per (comment, user).
func UpsertReaction(commentID int, userID int64, emoji string) (*models.Reaction, error) {
	query := `
		INSERT INTO episode_reactions (comment_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (comment_id, user_id) DO UPDATE SET
			emoji = EXCLUDED.emoji,
			created_at = NOW()
		RETURNING id, comment_id, user_id, emoji, created_at
	`
	reaction := &models.Reaction{}
	err := DB.Get(reaction, query, commentID, userID, emoji)
	if err != nil {
		log.Printf("Error upserting reaction on comment %d: %v", commentID, err)
		return nil, err
	}
	return reaction, nil
}

func GetReactionsByEpisodeID(episodeID int) ([]models.Reaction, error) {
	query := `
		SELECT r.id, r.comment_id, r.user_id, r.emoji, r.created_at
		FROM episode_reactions r
		JOIN episode_comments c ON c.id = r.comment_id
		WHERE c.episode_id = $1
		ORDER BY r.created_at
	`
	var reactions []models.Reaction
	err := DB.Select(&reactions, query, episodeID)
	if err != nil {
		log.Printf("Error getting reactions for episode %d: %v", episodeID, err)
		return nil, err
	}
	return reactions, nil
}
