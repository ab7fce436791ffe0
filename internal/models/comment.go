package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type CommentStatus string

const (
	CommentOpen     CommentStatus = "open"
	CommentResolved CommentStatus = "resolved"
	CommentArchived CommentStatus = "archived"
)

// Valid reports whether s is a known comment status. Any valid status is
// reachable from any other; there is no transition table for comments.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentOpen, CommentResolved, CommentArchived:
		return true
	}
	return false
}

type CommentPriority string

const (
	PriorityLow      CommentPriority = "low"
	PriorityMedium   CommentPriority = "medium"
	PriorityHigh     CommentPriority = "high"
	PriorityCritical CommentPriority = "critical"
)

func (p CommentPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TextSelection anchors a comment to a span of a named content section.
type TextSelection struct {
	Section string `json:"section"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
}

func (t TextSelection) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TextSelection) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return fmt.Errorf("unsupported type %T for TextSelection", src)
}

type Comment struct {
	ID            int             `db:"id" json:"id"`
	EpisodeID     int             `db:"episode_id" json:"episode_id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	ParentID      *int            `db:"parent_id" json:"parent_id,omitempty"`
	Content       string          `db:"content" json:"content"`
	TextSelection *TextSelection  `db:"text_selection" json:"text_selection,omitempty"`
	Status        CommentStatus   `db:"status" json:"status"`
	Priority      CommentPriority `db:"priority" json:"priority"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Author    Author     `json:"author"`
	Replies   []*Comment `json:"replies,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// AnchoredTo reports whether the comment should be shown inline for a section
// whose current text is sectionText. The match is a verbatim substring check
// against the selection captured at comment time, so an edit that removes the
// selected text verbatim makes the comment drop out of the inline view. It
// stays visible in the flat list.
func (c *Comment) AnchoredTo(section, sectionText string) bool {
	if c.TextSelection == nil || c.TextSelection.Section != section {
		return false
	}
	return strings.Contains(sectionText, c.TextSelection.Text)
}

// Reaction is a user's emoji reaction to a comment, at most one per
// (comment, user) pair.
type Reaction struct {
	ID        int       `db:"id" json:"id"`
	CommentID int       `db:"comment_id" json:"comment_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
