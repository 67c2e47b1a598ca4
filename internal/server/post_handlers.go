package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Content        string `json:"content" validate:"required"`
		MediaURL       string `json:"media_url,omitempty"`
		OrganizationID *uint  `json:"organization_id,omitempty"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID:       userID,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(ctx, id, viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(ctx, authorID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content        string  `json:"content"`
		MediaURL       *string `json:"media_url,omitempty"`
		OrganizationID *uint   `json:"organization_id,omitempty"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		AuthorID:       userID,
		PostID:         postID,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, userID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
