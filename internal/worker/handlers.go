// Package worker runs the asynq task handlers: pushing notifications out to
// Telegram and sweeping presence rows that stopped heartbeating.
package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"podstudio/internal/db"
	"podstudio/pkg/tasks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
)

// MessageSender is the outbound Telegram surface, implemented by
// tgbotapi.BotAPI and mocked in tests.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TaskHandler struct {
	bot MessageSender
}

func NewTaskHandler(bot MessageSender) *TaskHandler {
	return &TaskHandler{bot: bot}
}

// HandleDeliverNotificationTask pushes one stored notification to the
// recipient's Telegram chat. The notification row is already durable;
// delivery is best effort and a missing bot simply skips the push.
func (h *TaskHandler) HandleDeliverNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.DeliverNotificationTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	if h.bot == nil {
		log.Printf("No Telegram bot configured, skipping delivery of notification %d", p.NotificationID)
		return nil
	}

	n, err := db.GetNotificationByID(p.NotificationID, p.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row deleted since enqueue; nothing left to deliver.
			log.Printf("Notification %d for user %d no longer exists, skipping", p.NotificationID, p.UserID)
			return nil
		}
		return fmt.Errorf("failed to load notification %d: %w", p.NotificationID, err)
	}

	// Users authenticate through the Telegram Mini App, so the user id is
	// the chat id.
	msg := tgbotapi.NewMessage(p.UserID, fmt.Sprintf("%s\n%s", n.Title, n.Message))
	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification %d to user %d: %w", n.ID, p.UserID, err)
	}
	log.Printf("Delivered notification %d to user %d", n.ID, p.UserID)
	return nil
}

// HandleSweepPresenceTask flips presence rows past the liveness window to
// inactive.
func (h *TaskHandler) HandleSweepPresenceTask(ctx context.Context, t *asynq.Task) error {
	swept, err := db.SweepStalePresence()
	if err != nil {
		return fmt.Errorf("failed to sweep stale presence: %w", err)
	}
	if swept > 0 {
		log.Printf("Swept %d stale presence rows", swept)
	}
	return nil
}
