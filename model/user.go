package model

import "time"

// User represents a bot user, keyed by their telegram id.
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegramId"`
	Username   string    `gorm:"size:100" json:"username,omitempty"`
	FirstName  string    `gorm:"size:100" json:"firstName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
