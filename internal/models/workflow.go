package models

import "time"

// WorkflowStatus is an episode's position in the review workflow. It is only
// ever written through the workflow engine, never directly by handlers.
type WorkflowStatus string

const (
	StatusDraft        WorkflowStatus = "draft"
	StatusInReview     WorkflowStatus = "in_review"
	StatusNeedsChanges WorkflowStatus = "needs_changes"
	StatusApproved     WorkflowStatus = "approved"
	StatusPublished    WorkflowStatus = "published"
)

// Valid reports whether s is a known workflow status.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusNeedsChanges, StatusApproved, StatusPublished:
		return true
	}
	return false
}

// WorkflowState is one row of an episode's append-only transition history.
// The most recent row's Status always matches the episode's current status.
type WorkflowState struct {
	ID        int            `db:"id" json:"id"`
	EpisodeID int            `db:"episode_id" json:"episode_id"`
	Status    WorkflowStatus `db:"status" json:"status"`
	ChangedBy int64          `db:"changed_by" json:"changed_by"`
	Notes     *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
