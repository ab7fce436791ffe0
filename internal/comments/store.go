// Package comments implements threaded, reactable annotations on episodes.
package comments

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"podstudio/internal/db"
	"podstudio/internal/models"
	"podstudio/internal/realtime"
	"podstudio/pkg/tasks"
)

var (
	// ErrInvalidStatus is returned for an unknown comment status value.
	ErrInvalidStatus = errors.New("comments: invalid status")
	// ErrInvalidPriority is returned for an unknown priority value.
	ErrInvalidPriority = errors.New("comments: invalid priority")
)

// Store persists comments and reactions and fans new-comment notifications
// out to the episode's other collaborators.
type Store struct {
	asynqClient tasks.TaskEnqueuer
	publisher   realtime.Publisher
}

func NewStore(asynqClient tasks.TaskEnqueuer, publisher realtime.Publisher) *Store {
	return &Store{asynqClient: asynqClient, publisher: publisher}
}

type commentAddedPayload struct {
	EpisodeID int   `json:"episode_id"`
	CommentID int   `json:"comment_id"`
	AuthorID  int64 `json:"author_id"`
}

// AddComment inserts a comment, optionally anchored to a text selection and
// optionally as a reply to parentID, then notifies the other collaborators.
func (s *Store) AddComment(episodeID int, userID int64, content string, selection *models.TextSelection, parentID *int, priority models.CommentPriority) (*models.Comment, error) {
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	comment, err := db.InsertComment(episodeID, userID, content, selection, parentID, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	if author, err := db.GetUserByID(userID); err == nil {
		comment.Author = models.Author{ID: author.ID, DisplayName: author.DisplayName, AvatarURL: author.AvatarURL}
	}

	s.notifyCommentAdded(episodeID, comment)
	s.publisher.Publish(realtime.EpisodeTopic(episodeID), realtime.Event{
		Table:     "episode_comments",
		Action:    realtime.ActionInsert,
		EpisodeID: episodeID,
	})

	return comment, nil
}

// GetThreadedComments loads all comments for the episode and partitions them
// into top-level comments with their direct children attached as replies.
func (s *Store) GetThreadedComments(episodeID int) ([]*models.Comment, error) {
	comments, err := db.GetCommentsByEpisodeID(episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	reactions, err := db.GetReactionsByEpisodeID(episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reactions: %w", err)
	}
	byComment := make(map[int][]models.Reaction)
	for _, r := range reactions {
		byComment[r.CommentID] = append(byComment[r.CommentID], r)
	}
	for _, c := range comments {
		c.Reactions = byComment[c.ID]
	}

	return ThreadComments(comments), nil
}

// ThreadComments partitions a flat creation-ordered list into top-level
// comments with direct children as replies. Only one level is materialized:
// a reply to a reply keeps its parent link in the row but is not lifted into
// any replies slice, matching the threaded view's behavior.
func ThreadComments(comments []*models.Comment) []*models.Comment {
	byID := make(map[int]*models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	var topLevel []*models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok && parent.ParentID == nil {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return topLevel
}

// CommentsForSection filters comments down to those still anchored to the
// section's current text via the stored selection substring.
func CommentsForSection(comments []*models.Comment, section, sectionText string) []*models.Comment {
	var anchored []*models.Comment
	for _, c := range comments {
		if c.AnchoredTo(section, sectionText) {
			anchored = append(anchored, c)
		}
	}
	return anchored
}

// UpdateStatus sets a comment's status. Any status is reachable from any
// other.
func (s *Store) UpdateStatus(commentID int, status models.CommentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	comment, err := db.GetCommentByID(commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}
	if err := db.UpdateCommentStatus(commentID, status); err != nil {
		return fmt.Errorf("failed to update comment status: %w", err)
	}

	s.publisher.Publish(realtime.EpisodeTopic(comment.EpisodeID), realtime.Event{
		Table:     "episode_comments",
		Action:    realtime.ActionUpdate,
		EpisodeID: comment.EpisodeID,
	})
	return nil
}

// AddReaction upserts the user's reaction on a comment; a second reaction
// from the same user replaces the first.
func (s *Store) AddReaction(commentID int, userID int64, emoji string) (*models.Reaction, error) {
	comment, err := db.GetCommentByID(commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}

	reaction, err := db.UpsertReaction(commentID, userID, emoji)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert reaction: %w", err)
	}

	s.publisher.Publish(realtime.EpisodeTopic(comment.EpisodeID), realtime.Event{
		Table:     "episode_reactions",
		Action:    realtime.ActionInsert,
		EpisodeID: comment.EpisodeID,
	})
	return reaction, nil
}

// notifyCommentAdded mirrors the workflow engine's fan-out: one comment_added
// notification per collaborator other than the author, best effort.
func (s *Store) notifyCommentAdded(episodeID int, comment *models.Comment) {
	collaborators, err := db.GetCollaborators(episodeID)
	if err != nil {
		log.Printf("Skipping comment notifications for episode %d: %v", episodeID, err)
		return
	}

	data, _ := json.Marshal(commentAddedPayload{EpisodeID: episodeID, CommentID: comment.ID, AuthorID: comment.UserID})
	title := "New comment"
	message := fmt.Sprintf("%s commented on the episode", comment.Author.DisplayName)

	for _, c := range collaborators {
		if c.UserID == comment.UserID {
			continue
		}
		n, err := db.InsertNotification(c.UserID, models.NotificationCommentAdded, title, message, data)
		if err != nil {
			log.Printf("Failed to notify user %d of comment %d: %v", c.UserID, comment.ID, err)
			continue
		}
		s.publisher.Publish(realtime.UserTopic(c.UserID), realtime.Event{
			Table:  "notifications",
			Action: realtime.ActionInsert,
			UserID: c.UserID,
		})
		task, err := tasks.NewDeliverNotificationTask(n.ID, c.UserID)
		if err != nil {
			log.Printf("Failed to create delivery task for notification %d: %v", n.ID, err)
			continue
		}
		if _, err := s.asynqClient.Enqueue(task); err != nil {
			log.Printf("Failed to enqueue delivery task for notification %d: %v", n.ID, err)
		}
	}
}
