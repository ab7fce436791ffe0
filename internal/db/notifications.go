package db

import (
	"encoding/json"
	"log"

	"podstudio/internal/models"
)

func InsertNotification(userID int64, typ models.NotificationType, title, message string, data json.RawMessage) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, type, title, message, data, read, created_at
	`
	n := &models.Notification{}
	err := DB.Get(n, query, userID, typ, title, message, data)
	if err != nil {
		log.Printf("Error inserting notification for user %d: %v", userID, err)
		return nil, err
	}
	return n, nil
}

// GetNotificationByID loads one notification, scoped to its recipient.
func GetNotificationByID(id int, userID int64) (*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, read, created_at
		FROM notifications
		WHERE id = $1 AND user_id = $2
	`
	n := &models.Notification{}
	err := DB.Get(n, query, id, userID)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func GetNotificationsByUserID(userID int64, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var notifications []models.Notification
	err := DB.Select(&notifications, query, userID, limit)
	if err != nil {
		log.Printf("Error getting notifications for user %d: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips one notification, and only if it belongs to the
// caller.
func MarkNotificationRead(id int, userID int64) error {
	_, err := DB.Exec("UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		log.Printf("Error marking notification %d read: %v", id, err)
	}
	return err
}

// MarkAllNotificationsRead clears every unread row for the user in one write.
func MarkAllNotificationsRead(userID int64) error {
	_, err := DB.Exec("UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE", userID)
	if err != nil {
		log.Printf("Error marking all notifications read for user %d: %v", userID, err)
	}
	return err
}
