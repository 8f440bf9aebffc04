package models

import (
	"time"
)

// Category is a top-level container for topics.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	IsLocked    bool      `gorm:"not null;default:false" json:"is_locked"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// Topics is populated on detail fetches only; it is never persisted
	// on the category row itself.
	Topics []*Topic `gorm:"-" json:"topics,omitempty"`
}
