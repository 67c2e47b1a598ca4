// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans. A post's multiplier is frozen from the author's plan at
// creation time; changing the plan later never touches existing posts.
const (
	PlanFree  = "free"
	PlanPro   = "pro"
	PlanElite = "elite"
)

// User represents an author in the Ripple application. Identity and
// authentication live elsewhere; this is the read-mostly projection the feed
// engine needs (display metadata, plan, admin flag).
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	Plan        string         `gorm:"not null;default:free" json:"plan"`
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
