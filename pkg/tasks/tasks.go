package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeDeliverNotification = "notification:deliver"
	TypeSweepPresence       = "presence:sweep"
)

type DeliverNotificationTaskPayload struct {
	NotificationID int
	UserID         int64
}

func NewDeliverNotificationTask(notificationID int, userID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(DeliverNotificationTaskPayload{
		NotificationID: notificationID,
		UserID:         userID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverNotification, payload), nil
}

func NewSweepPresenceTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeSweepPresence, nil), nil
}
