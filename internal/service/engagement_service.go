package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/ranking"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// EngagementService records likes, shares, and comments. Every successful
// mutation ends with a synchronous rescore of the touched post.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	commentRepo    repository.CommentRepository
	postRepo       repository.PostRepository
	engine         *ranking.Engine
	settings       *config.Settings
}

type CommentInput struct {
	PostID   uint
	AuthorID uint
	Content  string
	ParentID *uint
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	engine *ranking.Engine,
	settings *config.Settings,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		commentRepo:    commentRepo,
		postRepo:       postRepo,
		engine:         engine,
		settings:       settings,
	}
}

// activePost loads a post for an engagement write. Non-ACTIVE posts read as
// not found so hidden content does not leak its existence through engagement
// endpoints.
func (s *EngagementService) activePost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// Like records a like. The unique (post, user) index is the idempotency
// guarantee; a lost insert race surfaces as AlreadyLiked, same as a repeat
// call.
func (s *EngagementService) Like(ctx context.Context, postID, userID uint) (*models.Post, error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return nil, err
	}

	inserted, err := s.engagementRepo.InsertLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, models.NewAlreadyLikedError()
	}

	if err := s.postRepo.IncrementCounter(ctx, postID, repository.ColLikeCount); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("like").Inc()
	return rescorePost(ctx, s.postRepo, s.engine, postID)
}

// Unlike removes a like. It works on any existing post regardless of status
// so users can withdraw engagement from content that was later hidden.
func (s *EngagementService) Unlike(ctx context.Context, postID, userID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	removed, err := s.engagementRepo.DeleteLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotLikedError()
	}

	if err := s.postRepo.DecrementCounter(ctx, postID, repository.ColLikeCount); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("unlike").Inc()
	return rescorePost(ctx, s.postRepo, s.engine, postID)
}

// Share records a share. A repeat share by the same user is a silent success:
// no counter change, no rescore, no error.
func (s *EngagementService) Share(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.activePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.engagementRepo.InsertShare(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return post, nil
	}

	if err := s.postRepo.IncrementCounter(ctx, postID, repository.ColShareCount); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("share").Inc()
	return rescorePost(ctx, s.postRepo, s.engine, postID)
}

// Comment creates a comment or a reply. Replies may only target a live
// top-level comment on the same post; anything else is a missing parent.
func (s *EngagementService) Comment(ctx context.Context, in CommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if maxLen := s.settings.MaxCommentLength(); len(content) > maxLen {
		return nil, models.NewContentTooLongError(maxLen)
	}

	if _, err := s.activePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if _, err := s.commentRepo.GetParent(ctx, in.PostID, *in.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Parent comment", *in.ParentID)
			}
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		ParentID: in.ParentID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementCounter(ctx, in.PostID, repository.ColCommentCount); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("comment").Inc()
	if _, err := rescorePost(ctx, s.postRepo, s.engine, in.PostID); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment soft-deletes a comment and its direct replies. The post's
// comment_count drops by exactly one per delete call, regardless of how many
// replies the cascade removed; the counter tracks top-level deletion events.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, actorID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}

	if comment.AuthorID != actorID {
		return models.NewNotOwnerError("You can only delete your own comments")
	}

	if _, err := s.commentRepo.SoftDeleteWithReplies(ctx, commentID); err != nil {
		return err
	}

	if err := s.postRepo.DecrementCounter(ctx, comment.PostID, repository.ColCommentCount); err != nil {
		return err
	}
	observability.EngagementEvents.WithLabelValues("delete_comment").Inc()
	_, err = rescorePost(ctx, s.postRepo, s.engine, comment.PostID)
	return err
}

// ListComments returns a page of top-level comments, each carrying a bounded
// preview of its replies.
func (s *EngagementService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListTopLevel(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}

	preview := s.settings.ReplyPreview()
	for _, comment := range comments {
		replies, err := s.commentRepo.ListReplies(ctx, comment.ID, preview)
		if err != nil {
			return nil, err
		}
		comment.Replies = replies
	}
	return comments, nil
}

// ListReplies returns the full reply set under one top-level comment.
func (s *EngagementService) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, commentID, 0)
}

func (s *EngagementService) ListLikes(ctx context.Context, postID uint, limit, offset int) ([]*models.Like, error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.engagementRepo.ListLikes(ctx, postID, limit, offset)
}

func (s *EngagementService) ListShares(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.engagementRepo.ListShares(ctx, postID, limit, offset)
}
