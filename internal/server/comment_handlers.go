package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content" validate:"required"`
		ParentID *uint  `json:"parent_id,omitempty"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.engagementService.Comment(ctx, service.CommentInput{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments. Each top-level comment
// carries a bounded reply preview; the full thread is at /comments/:id/replies.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	comments, err := s.engagementService.ListComments(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	return c.JSON(comments)
}

// GetReplies handles GET /api/comments/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	ctx := c.Context()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.engagementService.ListReplies(ctx, commentID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if replies == nil {
		replies = []*models.Comment{}
	}

	return c.JSON(replies)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementService.DeleteComment(ctx, commentID, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
