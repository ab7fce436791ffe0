package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationStatusChanged NotificationType = "status_changed"
	NotificationCommentAdded  NotificationType = "comment_added"
)

// Notification is created by the system on behalf of the recipient; only the
// recipient flips the read flag.
type Notification struct {
	ID        int              `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Data      json.RawMessage  `db:"data" json:"data,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// UnreadCount filters the loaded list; the badge is only as fresh as the last
// fetch or realtime push.
func UnreadCount(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].Read {
			n++
		}
	}
	return n
}
