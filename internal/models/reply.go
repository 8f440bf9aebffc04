package models

import (
	"time"
)

// Reply is a single answer inside a topic.
type Reply struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	TopicID uint   `gorm:"not null;index" json:"topic_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	// Upvotes/Downvotes are not persisted; computed at query time by
	// counting vote rows so they can never drift from the votes table.
	Upvotes   int       `gorm:"->" json:"upvotes"`
	Downvotes int       `gorm:"->" json:"downvotes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
