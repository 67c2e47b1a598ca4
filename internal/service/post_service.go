package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/ranking"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// PostService owns the author-facing post lifecycle: creation with frozen
// ranking inputs, windowed edits, and author deletion.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	engine   *ranking.Engine
	settings *config.Settings
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID       uint
	Content        string
	MediaURL       string
	OrganizationID *uint
}

type UpdatePostInput struct {
	AuthorID uint
	PostID   uint
	// Content is the new body; empty means unchanged.
	Content string
	// MediaURL replaces the media reference when non-nil; a pointer to the
	// empty string clears it. Media edits are only valid inside the
	// configured edit window.
	MediaURL *string
	// OrganizationID re-resolves the contextual title when non-nil. The
	// author's membership is re-validated, never silently dropped.
	OrganizationID *uint
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	engine *ranking.Engine,
	settings *config.Settings,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		engine:   engine,
		settings: settings,
		isAdmin:  isAdmin,
	}
}

// resolveContextualTitle validates that the author currently holds a role in
// the organization and renders the title label from it.
func (s *PostService) resolveContextualTitle(ctx context.Context, authorID, orgID uint) (string, error) {
	membership, err := s.userRepo.OrgMembership(ctx, authorID, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NewNotAMemberError()
		}
		return "", err
	}
	return fmt.Sprintf("%s at %s", membership.Role, membership.Organization.Name), nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if maxLen := s.settings.MaxPostLength(); len(content) > maxLen {
		return nil, models.NewContentTooLongError(maxLen)
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.AuthorID)
		}
		return nil, err
	}

	var contextualTitle string
	if in.OrganizationID != nil {
		contextualTitle, err = s.resolveContextualTitle(ctx, in.AuthorID, *in.OrganizationID)
		if err != nil {
			return nil, err
		}
	}

	// The multiplier is frozen here from the author's current plan; later
	// plan changes never touch existing posts.
	now := time.Now()
	post := &models.Post{
		AuthorID:               in.AuthorID,
		Content:                content,
		MediaURL:               in.MediaURL,
		ContextualTitle:        contextualTitle,
		OrganizationID:         in.OrganizationID,
		Status:                 models.PostStatusActive,
		SubscriptionMultiplier: s.settings.PlanMultiplier(author.Plan),
	}
	post.RankingScore = s.engine.Score(ranking.Inputs{
		CreatedAt:  now,
		Multiplier: post.SubscriptionMultiplier,
	}, now)
	post.ScoreComputedAt = &now

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if post.AuthorID != in.AuthorID {
		return nil, models.NewNotOwnerError("You can only edit your own posts")
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewInvalidStateError("Only ACTIVE posts can be edited")
	}

	now := time.Now()
	fields := map[string]interface{}{}

	if content := strings.TrimSpace(in.Content); content != "" && content != post.Content {
		if maxLen := s.settings.MaxPostLength(); len(content) > maxLen {
			return nil, models.NewContentTooLongError(maxLen)
		}
		fields["content"] = content
	}

	if in.MediaURL != nil && *in.MediaURL != post.MediaURL {
		if now.Sub(post.CreatedAt) > s.settings.MediaEditWindow() {
			return nil, models.NewInvalidStateError("Media can no longer be changed on this post")
		}
		fields["media_url"] = *in.MediaURL
		fields["media_edited_at"] = now
	}

	if in.OrganizationID != nil {
		title, err := s.resolveContextualTitle(ctx, in.AuthorID, *in.OrganizationID)
		if err != nil {
			return nil, err
		}
		fields["organization_id"] = *in.OrganizationID
		fields["contextual_title"] = title
	}

	if len(fields) == 0 {
		return post, nil
	}

	fields["is_edited"] = true
	fields["edit_count"] = post.EditCount + 1
	fields["last_edited_at"] = now

	if err := s.postRepo.UpdateFields(ctx, in.PostID, fields); err != nil {
		return nil, err
	}
	// The edit penalty applies from the next score, so recompute now.
	return rescorePost(ctx, s.postRepo, s.engine, in.PostID)
}

// DeletePost is the author-facing delete. DELETED is terminal; the row stays
// for audit but leaves every feed read.
func (s *PostService) DeletePost(ctx context.Context, authorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}

	if post.AuthorID != authorID {
		return models.NewNotOwnerError("You can only delete your own posts")
	}
	if post.Status == models.PostStatusDeleted {
		return models.NewInvalidStateError("Post is already deleted")
	}

	return s.postRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"status": models.PostStatusDeleted,
	})
}

// GetPost returns a single post. Non-ACTIVE posts read as not found except to
// their author and to admins, so hidden content does not leak its existence.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	if post.Status == models.PostStatusActive || post.AuthorID == viewerID {
		return post, nil
	}
	if viewerID != 0 && s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, viewerID)
		if err == nil && admin {
			return post, nil
		}
	}
	return nil, models.NewNotFoundError("Post", postID)
}

// GetUserPosts lists an author's active posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}
