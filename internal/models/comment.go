package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Nesting is capped at one level:
// a reply's ParentID always references a top-level comment.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Replies   []*Comment     `gorm:"-" json:"replies,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
