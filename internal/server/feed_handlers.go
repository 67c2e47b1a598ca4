package server

import (
	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	posts, err := s.feedService.ListFeed(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetCursorFeed handles GET /api/feed/cursor?limit=&score=&after_id=
// The first call omits score/after_id; later calls pass the next_cursor
// values from the previous page.
func (s *Server) GetCursorFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	var after *repository.FeedCursor
	afterID := c.QueryInt("after_id", 0)
	scoreParam := c.Query("score")
	if scoreParam != "" || afterID > 0 {
		score := c.QueryFloat("score", -1)
		if score < 0 || afterID <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Cursor requires both score and after_id"))
		}
		after = &repository.FeedCursor{Score: score, ID: uint(afterID)}
	}

	result, err := s.feedService.CursorFeed(ctx, page.Limit, after)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if result.Posts == nil {
		result.Posts = []*models.Post{}
	}

	return c.JSON(result)
}

// GetDiscoverFeed handles GET /api/feed/discover, the ranked feed minus the
// caller's own posts.
func (s *Server) GetDiscoverFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.feedService.Discover(ctx, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}
