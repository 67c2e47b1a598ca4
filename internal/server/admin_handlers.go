package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListPosts handles GET /api/admin/posts?status=&q=
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	posts, total, err := s.moderationService.ListPosts(
		ctx, c.Query("status"), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// AdminStats handles GET /api/admin/stats
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// AdminHidePost handles POST /api/admin/posts/:id/hide
func (s *Server) AdminHidePost(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	// The body is optional; a bare hide carries no reason.
	_ = c.BodyParser(&req)

	post, err := s.moderationService.Hide(ctx, adminID, postID, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// AdminRestorePost handles POST /api/admin/posts/:id/restore
func (s *Server) AdminRestorePost(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Restore(ctx, adminID, postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	_ = c.BodyParser(&req)

	post, err := s.moderationService.Delete(ctx, adminID, postID, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// AdminFeaturePost handles POST /api/admin/posts/:id/feature
func (s *Server) AdminFeaturePost(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		DurationHours *int `json:"duration_hours,omitempty"`
	}
	// Omitting the body features indefinitely.
	_ = c.BodyParser(&req)

	post, err := s.moderationService.Feature(ctx, adminID, postID, req.DurationHours)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// AdminUnfeaturePost handles POST /api/admin/posts/:id/unfeature
func (s *Server) AdminUnfeaturePost(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Unfeature(ctx, adminID, postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// AdminRescoreAll handles POST /api/admin/rescore, the operator-triggered
// full recomputation after a weight change. It runs inline and can be slow.
func (s *Server) AdminRescoreAll(c *fiber.Ctx) error {
	report, err := s.rescorer.RecalculateAll(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"selected":  report.Selected,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	})
}
