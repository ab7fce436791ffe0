// Package workflow owns the episode review state machine. All status writes
// go through Engine.RequestTransition; handlers never touch the status
// column directly.
package workflow

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

// transitions is the single source of truth for which status changes are
// allowed. It is enforced here, server-side; the UI offering fewer options is
// not a substitute.
var transitions = map[models.WorkflowStatus][]models.WorkflowStatus{
	models.StatusDraft:        {models.StatusInReview},
	models.StatusInReview:     {models.StatusNeedsChanges, models.StatusApproved},
	models.StatusNeedsChanges: {models.StatusDraft, models.StatusInReview},
	models.StatusApproved:     {models.StatusPublished, models.StatusNeedsChanges},
	models.StatusPublished:    {},
}

// AllowedTargets returns the statuses reachable from the given status.
func AllowedTargets(from models.WorkflowStatus) []models.WorkflowStatus {
	return transitions[from]
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to models.WorkflowStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// roleAllows checks the status-specific role rule for a transition target.
// Targets without a rule are open to any collaborator.
func roleAllows(role models.Role, target models.WorkflowStatus) bool {
	perms := role.Permissions()
	switch target {
	case models.StatusInReview:
		return perms.CanEditAll || perms.CanCreateEpisodes
	case models.StatusApproved:
		return perms.CanApprove
	case models.StatusPublished:
		return perms.CanPublish
	case models.StatusNeedsChanges:
		return perms.CanApprove
	default:
		return true
	}
}

var (
	// ErrTransitionNotAllowed is returned when the target is not reachable
	// from the episode's current status.
	ErrTransitionNotAllowed = errors.New("workflow: transition not allowed")
	// ErrRoleDenied is returned when the acting user's role lacks the
	// capability the target status requires.
	ErrRoleDenied = errors.New("workflow: role lacks permission for transition")
	// ErrStatusConflict is returned when a concurrent transition moved the
	// episode after the caller's validation read. The caller should re-read
	// and retry.
	ErrStatusConflict = errors.New("workflow: episode status changed concurrently")
)

// Engine validates and applies status transitions, records history and fans
// out notifications to the episode's other collaborators.
type Engine struct {
	asynqClient tasks.TaskEnqueuer
	publisher   realtime.Publisher
}

func NewEngine(asynqClient tasks.TaskEnqueuer, publisher realtime.Publisher) *Engine {
	return &Engine{asynqClient: asynqClient, publisher: publisher}
}

type statusChangedPayload struct {
	EpisodeID int                   `json:"episode_id"`
	Status    models.WorkflowStatus `json:"status"`
	ChangedBy int64                 `json:"changed_by"`
}

// RequestTransition moves an episode to target on behalf of actorID.
//
// Validation happens against a fresh read and fails closed: nothing is
// written on a denied transition. The status write is conditional on the
// status the validation saw, so two racing callers cannot both apply; the
// loser gets ErrStatusConflict and no history row.
func (e *Engine) RequestTransition(episodeID int, target models.WorkflowStatus, actorID int64, notes *string) (*models.WorkflowState, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrTransitionNotAllowed, target)
	}

	episode, err := db.GetEpisodeByID(episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load episode %d: %w", episodeID, err)
	}

	if !CanTransition(episode.CurrentStatus, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, episode.CurrentStatus, target)
	}

	role, err := db.GetEffectiveRole(episodeID, episode.WorkspaceID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role for user %d: %w", actorID, err)
	}
	if !roleAllows(role, target) {
		return nil, fmt.Errorf("%w: role %q cannot set %s", ErrRoleDenied, role, target)
	}

	applied, err := db.UpdateEpisodeStatus(episodeID, episode.CurrentStatus, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update episode status: %w", err)
	}
	if !applied {
		return nil, ErrStatusConflict
	}

	state, err := db.AppendWorkflowState(episodeID, target, actorID, notes)
	if err != nil {
		// The status column moved but the history row did not land. Surface
		// the failure; the caller must retry or alert, because the latest
		// history row no longer matches current_status.
		return nil, fmt.Errorf("status updated but history append failed for episode %d: %w", episodeID, err)
	}

	e.notifyStatusChanged(&episode, target, actorID)
	e.publisher.Publish(realtime.EpisodeTopic(episodeID), realtime.Event{
		Table:     "workflow_states",
		Action:    realtime.ActionInsert,
		EpisodeID: episodeID,
	})

	return &state, nil
}

// notifyStatusChanged creates one status_changed notification per
// collaborator other than the actor. Best effort: the transition already
// committed, so failures are logged and the loop moves on.
func (e *Engine) notifyStatusChanged(episode *models.Episode, target models.WorkflowStatus, actorID int64) {
	collaborators, err := db.GetCollaborators(episode.ID)
	if err != nil {
		log.Printf("Skipping status notifications for episode %d: %v", episode.ID, err)
		return
	}

	data, _ := json.Marshal(statusChangedPayload{EpisodeID: episode.ID, Status: target, ChangedBy: actorID})
	title := "Episode status changed"
	message := fmt.Sprintf("%q moved to %s", episode.Title, target)

	for _, c := range collaborators {
		if c.UserID == actorID {
			continue
		}
		n, err := db.InsertNotification(c.UserID, models.NotificationStatusChanged, title, message, data)
		if err != nil {
			log.Printf("Failed to notify user %d of status change on episode %d: %v", c.UserID, episode.ID, err)
			continue
		}
		e.publisher.Publish(realtime.UserTopic(c.UserID), realtime.Event{
			Table:  "notifications",
			Action: realtime.ActionInsert,
			UserID: c.UserID,
		})
		task, err := tasks.NewDeliverNotificationTask(n.ID, c.UserID)
		if err != nil {
			log.Printf("Failed to create delivery task for notification %d: %v", n.ID, err)
			continue
		}
		if _, err := e.asynqClient.Enqueue(task); err != nil {
			log.Printf("Failed to enqueue delivery task for notification %d: %v", n.ID, err)
		}
	}
}
