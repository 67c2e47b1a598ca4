package service

import (
	"context"
	"errors"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// ModerationService is the admin overlay on post visibility: the
// ACTIVE/HIDDEN/DELETED state machine plus the time-bounded featured pin.
// Handlers gate these behind admin auth; the service records who acted.
type ModerationService struct {
	postRepo repository.PostRepository
}

func NewModerationService(postRepo repository.PostRepository) *ModerationService {
	return &ModerationService{postRepo: postRepo}
}

func (s *ModerationService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return post, nil
}

// Hide moves an ACTIVE post out of every feed read, recording the actor,
// reason, and time.
func (s *ModerationService) Hide(ctx context.Context, adminID, postID uint, reason string) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewInvalidStateError("Only ACTIVE posts can be hidden")
	}

	now := time.Now()
	if err := s.postRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"status":            models.PostStatusHidden,
		"moderated_by":      adminID,
		"moderation_reason": reason,
		"moderated_at":      now,
	}); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Restore returns a HIDDEN post to ACTIVE and clears the moderation record.
func (s *ModerationService) Restore(ctx context.Context, adminID, postID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusHidden {
		return nil, models.NewInvalidStateError("Only HIDDEN posts can be restored")
	}

	if err := s.postRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"status":            models.PostStatusActive,
		"moderated_by":      nil,
		"moderation_reason": "",
		"moderated_at":      nil,
	}); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Delete moves an ACTIVE or HIDDEN post to DELETED. The state is terminal:
// there is no restore path out of it.
func (s *ModerationService) Delete(ctx context.Context, adminID, postID uint, reason string) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, models.NewInvalidStateError("Post is already deleted")
	}

	now := time.Now()
	if err := s.postRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"status":            models.PostStatusDeleted,
		"moderated_by":      adminID,
		"moderation_reason": reason,
		"moderated_at":      now,
	}); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Feature pins an ACTIVE post ahead of the ranked order, optionally expiring
// after durationHours. Expiry is evaluated at read time; no sweep clears the
// flag.
func (s *ModerationService) Feature(ctx context.Context, adminID, postID uint, durationHours *int) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewInvalidStateError("Only ACTIVE posts can be featured")
	}
	if durationHours != nil && *durationHours <= 0 {
		return nil, models.NewValidationError("duration_hours must be positive")
	}

	now := time.Now()
	fields := map[string]interface{}{
		"is_featured":    true,
		"featured_at":    now,
		"featured_by":    adminID,
		"featured_until": nil,
	}
	if durationHours != nil {
		fields["featured_until"] = now.Add(time.Duration(*durationHours) * time.Hour)
	}

	if err := s.postRepo.UpdateFields(ctx, postID, fields); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Unfeature clears the pin and its bookkeeping.
func (s *ModerationService) Unfeature(ctx context.Context, adminID, postID uint) (*models.Post, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"is_featured":    false,
		"featured_at":    nil,
		"featured_until": nil,
		"featured_by":    nil,
	}); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// ListPosts is the admin listing: any status, optional status filter and
// free-text search, with a total for pagination UIs.
func (s *ModerationService) ListPosts(ctx context.Context, status, query string, limit, offset int) ([]*models.Post, int64, error) {
	if status != "" {
		switch status {
		case models.PostStatusActive, models.PostStatusHidden, models.PostStatusDeleted:
		default:
			return nil, 0, models.NewValidationError("Invalid status filter")
		}
	}
	return s.postRepo.AdminList(ctx, status, query, limit, offset)
}

// Stats aggregates the admin dashboard counts.
func (s *ModerationService) Stats(ctx context.Context) (*repository.FeedStats, error) {
	return s.postRepo.Stats(ctx, time.Now())
}
