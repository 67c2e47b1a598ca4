// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// Counter columns mutated through atomic increments.
const (
	ColLikeCount    = "like_count"
	ColCommentCount = "comment_count"
	ColShareCount   = "share_count"
)

// featuredNowCond selects posts whose featured pin is currently in effect.
// Expiry is evaluated here, at read time; no sweeper clears the flag.
const featuredNowCond = "is_featured AND (featured_until IS NULL OR featured_until > ?)"

// FeedCursor is the keyset position of the last-seen post: pages advance to
// strictly lower scores, breaking ties by strictly lower id so the ordering
// is a strict total order.
type FeedCursor struct {
	Score float64 `json:"score"`
	ID    uint    `json:"id"`
}

// FeedStats aggregates admin-facing counts over the post corpus.
type FeedStats struct {
	ActiveCount   int64   `json:"active_count"`
	HiddenCount   int64   `json:"hidden_count"`
	DeletedCount  int64   `json:"deleted_count"`
	FeaturedCount int64   `json:"featured_count"`
	PostsToday    int64   `json:"posts_today"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// PostRepository defines the persistence contract for posts. Score fields are
// written only through UpdateScore, counters only through the atomic
// increment/decrement operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdateScore(ctx context.Context, id uint, score float64, computedAt time.Time) error
	IncrementCounter(ctx context.Context, id uint, column string) error
	DecrementCounter(ctx context.Context, id uint, column string) error

	ListRanked(ctx context.Context, limit, offset int, excludeAuthor uint, now time.Time) ([]*models.Post, error)
	ListCursor(ctx context.Context, limit int, after *FeedCursor, now time.Time) ([]*models.Post, error)
	ListFeatured(ctx context.Context, limit int, now time.Time) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)

	FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Post, error)
	ListActiveAfter(ctx context.Context, afterID uint, limit int) ([]*models.Post, error)

	AdminList(ctx context.Context, status, query string, limit, offset int) ([]*models.Post, int64, error)
	Stats(ctx context.Context, now time.Time) (*FeedStats, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateFields applies a partial update. Counters and score fields must not
// be written through here; they have dedicated atomic paths.
func (r *postRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateFeed(ctx)
	}
	return err
}

// UpdateScore persists a freshly computed score. Engagement-triggered and
// batch-triggered writes may race here; last write wins by design.
func (r *postRepository) UpdateScore(ctx context.Context, id uint, score float64, computedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"ranking_score":     score,
			"score_computed_at": computedAt,
		}).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateFeed(ctx)
	}
	return err
}

// IncrementCounter applies `column = column + 1` as a single statement so
// concurrent engagement events never lose updates.
func (r *postRepository) IncrementCounter(ctx context.Context, id uint, column string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// DecrementCounter applies an atomic decrement floored at zero.
func (r *postRepository) DecrementCounter(ctx context.Context, id uint, column string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("CASE WHEN "+column+" > 0 THEN "+column+" - 1 ELSE 0 END")).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// rankedSelect exposes the pin state as select aliases so the ORDER BY can
// reference them by bare name on both Postgres and SQLite.
func (r *postRepository) rankedSelect(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Select(
		"posts.*, "+
			"CASE WHEN "+featuredNowCond+" THEN 1 ELSE 0 END AS pinned, "+
			"CASE WHEN "+featuredNowCond+" THEN featured_at END AS pinned_at",
		now, now,
	)
}

func (r *postRepository) ListRanked(ctx context.Context, limit, offset int, excludeAuthor uint, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.rankedSelect(r.db.WithContext(ctx), now).
		Preload("Author").
		Where("status = ?", models.PostStatusActive)
	if excludeAuthor != 0 {
		q = q.Where("author_id <> ?", excludeAuthor)
	}
	err := q.
		Order("pinned DESC").
		Order("pinned_at DESC").
		Order("ranking_score DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListCursor returns the next keyset page of non-featured active posts. A nil
// cursor starts from the top of the ranking.
func (r *postRepository) ListCursor(ctx context.Context, limit int, after *FeedCursor, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", models.PostStatusActive).
		Where("NOT ("+featuredNowCond+")", now)
	if after != nil {
		q = q.Where(
			"ranking_score < ? OR (ranking_score = ? AND id < ?)",
			after.Score, after.Score, after.ID,
		)
	}
	err := q.
		Order("ranking_score DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListFeatured(ctx context.Context, limit int, now time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", models.PostStatusActive).
		Where(featuredNowCond, now).
		Order("featured_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ? AND status = ?", authorID, models.PostStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// FindStale selects active posts whose score is missing or older than the
// threshold, newest first, capped at limit. The cap is the batch rescorer's
// scalability guard.
func (r *postRepository) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PostStatusActive).
		Where("score_computed_at IS NULL OR score_computed_at < ?", olderThan).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListActiveAfter walks the active post set in id order for full
// recalculation, keyset-style so the walk is stable while scores change.
func (r *postRepository) ListActiveAfter(ctx context.Context, afterID uint, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND id > ?", models.PostStatusActive, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) AdminList(ctx context.Context, status, query string, limit, offset int) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if query != "" {
		like := "%" + query + "%"
		base = base.Where("LOWER(content) LIKE LOWER(?) OR LOWER(contextual_title) LIKE LOWER(?)", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := base.
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) Stats(ctx context.Context, now time.Time) (*FeedStats, error) {
	stats := &FeedStats{}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch row.Status {
		case models.PostStatusActive:
			stats.ActiveCount = row.Count
		case models.PostStatusHidden:
			stats.HiddenCount = row.Count
		case models.PostStatusDeleted:
			stats.DeletedCount = row.Count
		}
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusActive).
		Where(featuredNowCond, now).
		Count(&stats.FeaturedCount).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.PostsToday).Error; err != nil {
		return nil, err
	}

	var avg struct {
		Avg float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COALESCE(AVG(like_count + comment_count + share_count), 0) as avg").
		Where("status = ?", models.PostStatusActive).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AvgEngagement = avg.Avg

	return stats, nil
}
