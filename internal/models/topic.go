package models

import (
	"time"
)

// Topic is a discussion thread inside a category.
type Topic struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null;index" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	IsLocked   bool      `gorm:"not null;default:false" json:"is_locked"`
	IsPrivate  bool      `gorm:"not null;default:false" json:"is_private"`
	BestReplyID *uint    `json:"best_reply_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// Replies and BestReply are populated on detail fetches only.
	Replies   []*Reply `gorm:"-" json:"replies,omitempty"`
	BestReply *Reply   `gorm:"-" json:"best_reply,omitempty"`
}
