package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.Like(ctx, postID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.Unlike(ctx, postID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// SharePost handles POST /api/posts/:id/share
func (s *Server) SharePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.Share(ctx, postID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// GetLikes handles GET /api/posts/:id/likes
func (s *Server) GetLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	likes, err := s.engagementService.ListLikes(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if likes == nil {
		likes = []*models.Like{}
	}

	return c.JSON(likes)
}

// GetShares handles GET /api/posts/:id/shares
func (s *Server) GetShares(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	shares, err := s.engagementService.ListShares(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if shares == nil {
		shares = []*models.Share{}
	}

	return c.JSON(shares)
}
