package repository

import (
	"context"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// CommentRepository persists post comments. Comments form a single-level
// thread: a comment either has no parent or points at a live top-level
// comment on the same post.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// GetParent resolves a reply target: it matches only live top-level
	// comments on the given post, so replies to replies and replies to
	// deleted comments both come back as not found.
	GetParent(ctx context.Context, postID, parentID uint) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uint, limit int) ([]*models.Comment, error)
	CountReplies(ctx context.Context, parentID uint) (int64, error)
	// SoftDeleteWithReplies removes a comment and, when it is top-level,
	// its direct replies, in one transaction. Returns the number of
	// comments removed.
	SoftDeleteWithReplies(ctx context.Context, id uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetParent(ctx context.Context, postID, parentID uint) (*models.Comment, error) {
	var parent models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ? AND parent_id IS NULL", parentID, postID).
		First(&parent).Error
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uint, limit int) ([]*models.Comment, error) {
	var replies []*models.Comment
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("parent_id = ?", parentID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&replies).Error
	return replies, err
}

func (r *commentRepository) CountReplies(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) SoftDeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&models.Comment{}).
			Where("parent_id = ?", id).
			Update("deleted_at", now)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		res = tx.Model(&models.Comment{}).
			Where("id = ?", id).
			Update("deleted_at", now)
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected
		return nil
	})
	return removed, err
}
