package models

import (
	"time"
)

// Like represents a user's like on a post. The unique (post, user) index is
// the idempotency guarantee: inserts race through ON CONFLICT DO NOTHING, not
// an application-level existence check.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Share represents a user's share of a post, unique per (post, user).
// A repeated share is a silent success and never double-counts.
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_share_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_share_post_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
