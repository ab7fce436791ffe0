package models

import "time"

// Workspace is the tenant boundary containing team members and episodes.
type Workspace struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	FeedUUID    string    `db:"feed_uuid" json:"feed_uuid"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TeamMember assigns a workspace-level role to a user.
type TeamMember struct {
	ID          int       `db:"id" json:"id"`
	WorkspaceID int       `db:"workspace_id" json:"workspace_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Role        Role      `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
