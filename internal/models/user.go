package models

import "time"

// User represents a user in the database. The ID is the Telegram user id
// supplied by the Mini App initData.
type User struct {
	ID               int64     `db:"id" json:"id"`
	TelegramUsername string    `db:"telegram_username" json:"telegram_username"`
	DisplayName      string    `db:"display_name" json:"display_name"`
	AvatarURL        *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Author is the minimal profile joined onto comments and history rows.
type Author struct {
	ID          int64   `db:"author_id" json:"id"`
	DisplayName string  `db:"author_display_name" json:"display_name"`
	AvatarURL   *string `db:"author_avatar_url" json:"avatar_url,omitempty"`
}
