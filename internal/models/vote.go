package models

import (
	"time"
)

// Vote values stored per (reply, user) pair.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote records a single user's vote on a single reply. The composite
// primary key is the central invariant of the voting subsystem: the store
// can never hold two votes for the same (reply, user) pair.
type Vote struct {
	ReplyID   uint      `gorm:"primaryKey;autoIncrement:false" json:"reply_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
