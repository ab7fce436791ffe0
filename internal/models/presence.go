package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PresenceWindow is how long after its last heartbeat a presence row still
// counts as live. A client that crashes without cleanup appears active for at
// most this long.
const PresenceWindow = 5 * time.Minute

// CursorPosition is where in the document a collaborator currently is.
type CursorPosition struct {
	Section  string `json:"section"`
	Position int    `json:"position"`
}

func (c CursorPosition) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CursorPosition) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return fmt.Errorf("unsupported type %T for CursorPosition", src)
}

// UserPresence is one row per (user, episode), upserted on every heartbeat.
type UserPresence struct {
	ID             int             `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	EpisodeID      int             `db:"episode_id" json:"episode_id"`
	CursorPosition *CursorPosition `db:"cursor_position" json:"cursor_position,omitempty"`
	LastSeen       time.Time       `db:"last_seen" json:"last_seen"`
	IsActive       bool            `db:"is_active" json:"is_active"`

	Author Author `json:"author"`
}

// Live reports whether the row counts as active at time now: the client must
// not have departed and must have heartbeat within the presence window.
func (p *UserPresence) Live(now time.Time) bool {
	return p.IsActive && now.Sub(p.LastSeen) <= PresenceWindow
}
