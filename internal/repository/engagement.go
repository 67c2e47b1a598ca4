package repository

import (
	"context"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository persists likes and shares. Both tables carry a unique
// (post_id, user_id) index; inserts use ON CONFLICT DO NOTHING so a repeated
// event reports inserted=false instead of erroring, which is what makes the
// operations idempotent under retries.
type EngagementRepository interface {
	InsertLike(ctx context.Context, postID, userID uint) (bool, error)
	DeleteLike(ctx context.Context, postID, userID uint) (bool, error)
	HasLiked(ctx context.Context, postID, userID uint) (bool, error)
	ListLikes(ctx context.Context, postID uint, limit, offset int) ([]*models.Like, error)

	InsertShare(ctx context.Context, postID, userID uint) (bool, error)
	ListShares(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) InsertLike(ctx context.Context, postID, userID uint) (bool, error) {
	like := models.Like{PostID: postID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) DeleteLike(ctx context.Context, postID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) ListLikes(ctx context.Context, postID uint, limit, offset int) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	return likes, err
}

func (r *engagementRepository) InsertShare(ctx context.Context, postID, userID uint) (bool, error) {
	share := models.Share{PostID: postID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&share)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) ListShares(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error) {
	var shares []*models.Share
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&shares).Error
	return shares, err
}
