package models

import "time"

// Version is one append-only snapshot of an episode's content.
// Version numbers are strictly increasing per episode.
type Version struct {
	ID                int       `db:"id" json:"id"`
	EpisodeID         int       `db:"episode_id" json:"episode_id"`
	ContentSnapshot   string    `db:"content_snapshot" json:"content_snapshot"`
	ChangedBy         int64     `db:"changed_by" json:"changed_by"`
	ChangeDescription *string   `db:"change_description" json:"change_description,omitempty"`
	VersionNumber     int       `db:"version_number" json:"version_number"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
