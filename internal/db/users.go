package db

import (
	"log"

	"podstudio/internal/models"
)

// UpsertUser inserts a new user or updates an existing one based on the Telegram ID.
func UpsertUser(id int64, username, displayName string) (*models.User, error) {
	query := `
		INSERT INTO users (id, telegram_username, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			telegram_username = EXCLUDED.telegram_username,
			display_name = EXCLUDED.display_name,
			updated_at = NOW()
		RETURNING id, telegram_username, display_name, avatar_url, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, id, username, displayName)
	if err != nil {
		log.Printf("Error upserting user: %v", err)
		return nil, err
	}
	return user, nil
}

func GetUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
