package db

import (
	"log"

	"podstudio/internal/models"
)

// UpsertPresence records a heartbeat for (user, episode). Concurrent
// heartbeats from the same client are last-write-wins by construction.
func UpsertPresence(userID int64, episodeID int, cursor *models.CursorPosition) error {
	query := `
		INSERT INTO user_presence (user_id, episode_id, cursor_position, last_seen, is_active)
		VALUES ($1, $2, $3, NOW(), TRUE)
		ON CONFLICT (user_id, episode_id) DO UPDATE SET
			cursor_position = COALESCE(EXCLUDED.cursor_position, user_presence.cursor_position),
			last_seen = NOW(),
			is_active = TRUE
	`
	_, err := DB.Exec(query, userID, episodeID, cursor)
	if err != nil {
		log.Printf("Error upserting presence for user %d on episode %d: %v", userID, episodeID, err)
	}
	return err
}

// MarkPresenceInactive is the clean-departure path. Best effort; the 5-minute
// window is the real liveness bound.
func MarkPresenceInactive(userID int64, episodeID int) error {
	_, err := DB.Exec(
		"UPDATE user_presence SET is_active = FALSE, last_seen = NOW() WHERE user_id = $1 AND episode_id = $2",
		userID, episodeID)
	if err != nil {
		log.Printf("Error marking presence inactive for user %d on episode %d: %v", userID, episodeID, err)
	}
	return err
}

// GetActivePresence returns live presence rows for an episode, excluding the
// requesting user's own row.
func GetActivePresence(episodeID int, selfID int64) ([]models.UserPresence, error) {
	query := `
		SELECT p.id, p.user_id, p.episode_id, p.cursor_position, p.last_seen, p.is_active,
		       u.id AS author_id, u.display_name AS author_display_name, u.avatar_url AS author_avatar_url
		FROM user_presence p
		JOIN users u ON u.id = p.user_id
		WHERE p.episode_id = $1
		  AND p.user_id <> $2
		  AND p.is_active = TRUE
		  AND p.last_seen > NOW() - INTERVAL '5 minutes'
		ORDER BY p.last_seen DESC
	`
	rows, err := DB.Queryx(query, episodeID, selfID)
	if err != nil {
		log.Printf("Error getting presence for episode %d: %v", episodeID, err)
		return nil, err
	}
	defer rows.Close()

	var presence []models.UserPresence
	for rows.Next() {
		p := models.UserPresence{}
		dest := struct {
			*models.UserPresence
			*models.Author
		}{&p, &p.Author}
		if err := rows.StructScan(&dest); err != nil {
			log.Printf("Error scanning presence row: %v", err)
			return nil, err
		}
		presence = append(presence, p)
	}
	return presence, rows.Err()
}

// SweepStalePresence flips rows that stopped heartbeating past the liveness
// window to inactive. Run periodically from the worker; readers already
// filter by the window, so this is hygiene, not correctness.
func SweepStalePresence() (int64, error) {
	res, err := DB.Exec(
		"UPDATE user_presence SET is_active = FALSE WHERE is_active = TRUE AND last_seen < NOW() - INTERVAL '5 minutes'")
	if err != nil {
		log.Printf("Error sweeping stale presence: %v", err)
		return 0, err
	}
	return res.RowsAffected()
}
