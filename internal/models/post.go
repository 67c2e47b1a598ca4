package models

import (
	"time"
)

// Post moderation states. DELETED is terminal; posts are never hard-deleted.
const (
	PostStatusActive  = "ACTIVE"
	PostStatusHidden  = "HIDDEN"
	PostStatusDeleted = "DELETED"
)

// Post is the central entity of the feed engine. Engagement counters are
// denormalized and mutated only through atomic SQL increments; the ranking
// fields are written by the scoring path alone.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"type:text;not null" json:"content"`
	MediaURL string `json:"media_url,omitempty"`

	// ContextualTitle is resolved from the author's role in OrganizationID at
	// creation time and only changes on an explicit, re-validated edit.
	ContextualTitle string `json:"contextual_title,omitempty"`
	OrganizationID  *uint  `gorm:"index" json:"organization_id,omitempty"`

	Status           string     `gorm:"not null;default:ACTIVE;index" json:"status"`
	ModeratedBy      *uint      `json:"moderated_by,omitempty"`
	ModerationReason string     `json:"moderation_reason,omitempty"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`

	IsFeatured    bool       `gorm:"default:false;index" json:"is_featured"`
	FeaturedAt    *time.Time `json:"featured_at,omitempty"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	FeaturedBy    *uint      `json:"featured_by,omitempty"`

	IsEdited      bool       `gorm:"default:false" json:"is_edited"`
	EditCount     int        `gorm:"default:0" json:"edit_count"`
	LastEditedAt  *time.Time `json:"last_edited_at,omitempty"`
	MediaEditedAt *time.Time `json:"media_edited_at,omitempty"`

	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`
	ShareCount   int `gorm:"not null;default:0" json:"share_count"`

	// SubscriptionMultiplier is immutable after creation.
	SubscriptionMultiplier float64    `gorm:"not null;default:1" json:"subscription_multiplier"`
	RankingScore           float64    `gorm:"not null;default:0;index" json:"ranking_score"`
	ScoreComputedAt        *time.Time `json:"score_computed_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Pinned is computed by ranked feed queries, not a stored column.
	Pinned bool `gorm:"->;-:migration" json:"pinned"`
}

// FeaturedNow reports whether the post is pinned at the given instant: the
// flag is set and the expiry, if any, has not passed. Expiry is evaluated at
// read time; no background sweep clears the flag.
func (p *Post) FeaturedNow(now time.Time) bool {
	if !p.IsFeatured {
		return false
	}
	return p.FeaturedUntil == nil || p.FeaturedUntil.After(now)
}
