// Package presence tracks who is currently viewing an episode. Liveness is a
// soft TTL: rows refresh on a heartbeat and readers ignore anything older
// than the presence window, so no expiry job is required for correctness.
package presence

import (
	"fmt"
	"log"
	"time"

	"podstudio/internal/db"
	"podstudio/internal/models"
	"podstudio/internal/realtime"
)

// HeartbeatInterval is how often an attached session refreshes its row.
const HeartbeatInterval = 30 * time.Second

// Tracker wraps the presence table with realtime publication.
type Tracker struct {
	publisher realtime.Publisher
}

func NewTracker(publisher realtime.Publisher) *Tracker {
	return &Tracker{publisher: publisher}
}

// Heartbeat refreshes the (user, episode) row, optionally updating the
// cursor. Called on the periodic tick and immediately on cursor movement.
func (t *Tracker) Heartbeat(userID int64, episodeID int, cursor *models.CursorPosition) error {
	if err := db.UpsertPresence(userID, episodeID, cursor); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	t.publisher.Publish(realtime.EpisodeTopic(episodeID), realtime.Event{
		Table:     "user_presence",
		Action:    realtime.ActionUpdate,
		EpisodeID: episodeID,
	})
	return nil
}

// Depart marks the user's row inactive on clean disconnect. Best effort: a
// crashed client never calls this and ages out through the window instead.
func (t *Tracker) Depart(userID int64, episodeID int) {
	if err := db.MarkPresenceInactive(userID, episodeID); err != nil {
		log.Printf("Failed to mark user %d departed from episode %d: %v", userID, episodeID, err)
		return
	}
	t.publisher.Publish(realtime.EpisodeTopic(episodeID), realtime.Event{
		Table:     "user_presence",
		Action:    realtime.ActionUpdate,
		EpisodeID: episodeID,
	})
}

// ActiveOthers lists live collaborators on the episode, excluding the caller.
func (t *Tracker) ActiveOthers(episodeID int, selfID int64) ([]models.UserPresence, error) {
	return db.GetActivePresence(episodeID, selfID)
}

// Attach heartbeats on behalf of a connected session until done is closed,
// then marks the departure. Used by the websocket handler so a client with
// an open socket stays live without issuing its own timer requests.
func (t *Tracker) Attach(userID int64, episodeID int, done <-chan struct{}) {
	if err := t.Heartbeat(userID, episodeID, nil); err != nil {
		log.Printf("Initial heartbeat failed for user %d on episode %d: %v", userID, episodeID, err)
	}

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.Heartbeat(userID, episodeID, nil); err != nil {
				log.Printf("Heartbeat failed for user %d on episode %d: %v", userID, episodeID, err)
			}
		case <-done:
			t.Depart(userID, episodeID)
			return
		}
	}
}
