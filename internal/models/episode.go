package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Sections holds an episode's editable content keyed by section name
// ("show_notes", "transcript", ...). Stored as a jsonb column.
type Sections map[string]string

func (s Sections) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *Sections) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = Sections{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported type %T for Sections", src)
}

type Episode struct {
	ID              int            `db:"id" json:"id"`
	WorkspaceID     int            `db:"workspace_id" json:"workspace_id"`
	Title           string         `db:"title" json:"title"`
	Description     *string        `db:"description" json:"description,omitempty"`
	Content         Sections       `db:"content" json:"content"`
	CurrentStatus   WorkflowStatus `db:"current_status" json:"current_status"`
	AudioURL        *string        `db:"audio_url" json:"audio_url,omitempty"`
	AudioSizeBytes  *int64         `db:"audio_size_bytes" json:"audio_size_bytes,omitempty"`
	DurationSeconds *int           `db:"duration_seconds" json:"duration_seconds,omitempty"`
	CreatedBy       int64          `db:"created_by" json:"created_by"`
	PublishedAt     *time.Time     `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// EpisodeCollaborator links a user to an episode, optionally overriding their
// workspace role for this episode only.
type EpisodeCollaborator struct {
	ID        int       `db:"id" json:"id"`
	EpisodeID int       `db:"episode_id" json:"episode_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Role      *Role     `db:"role" json:"role,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
