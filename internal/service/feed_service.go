package service

import (
	"context"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

// FeedService produces the ranked, paginated feed views. Both modes exclude
// non-ACTIVE posts; featured-pin expiry is evaluated at read time.
type FeedService struct {
	postRepo repository.PostRepository
	settings *config.Settings
}

// CursorPage is the cursor-mode response: a ranked batch, the cursor to
// resume from, and whether more pages likely remain.
type CursorPage struct {
	Posts      []*models.Post         `json:"posts"`
	NextCursor *repository.FeedCursor `json:"next_cursor,omitempty"`
	HasMore    bool                   `json:"has_more"`
}

func NewFeedService(postRepo repository.PostRepository, settings *config.Settings) *FeedService {
	return &FeedService{postRepo: postRepo, settings: settings}
}

// ListFeed is the offset-paginated ranked feed. The anonymous front page is
// served cache-aside with a short TTL.
func (s *FeedService) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	timer := observability.FeedQueryDuration.WithLabelValues("offset")
	start := time.Now()
	defer func() { timer.Observe(time.Since(start).Seconds()) }()

	now := time.Now()
	if offset == 0 && limit <= 50 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedPageKey(limit, offset), &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListRanked(ctx, limit, offset, 0, now)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.ListRanked(ctx, limit, offset, 0, now)
}

// Discover is the offset feed minus the caller's own posts.
func (s *FeedService) Discover(ctx context.Context, limit, offset int, excludeAuthor uint) ([]*models.Post, error) {
	timer := observability.FeedQueryDuration.WithLabelValues("discover")
	start := time.Now()
	defer func() { timer.Observe(time.Since(start).Seconds()) }()

	return s.postRepo.ListRanked(ctx, limit, offset, excludeAuthor, time.Now())
}

// CursorFeed returns the next keyset batch. The first call (nil cursor)
// prepends currently-featured posts ahead of the ranked batch; the cursor
// always derives from the ranked batch alone, so pinned posts never distort
// the keyset.
func (s *FeedService) CursorFeed(ctx context.Context, limit int, after *repository.FeedCursor) (*CursorPage, error) {
	timer := observability.FeedQueryDuration.WithLabelValues("cursor")
	start := time.Now()
	defer func() { timer.Observe(time.Since(start).Seconds()) }()

	now := time.Now()
	batch, err := s.postRepo.ListCursor(ctx, limit, after, now)
	if err != nil {
		return nil, err
	}

	page := &CursorPage{
		Posts:   batch,
		HasMore: len(batch) == limit,
	}
	if len(batch) > 0 {
		last := batch[len(batch)-1]
		page.NextCursor = &repository.FeedCursor{Score: last.RankingScore, ID: last.ID}
	}

	if after == nil {
		featured, err := s.postRepo.ListFeatured(ctx, s.settings.FeaturedLimit(), now)
		if err != nil {
			return nil, err
		}
		if len(featured) > 0 {
			page.Posts = append(featured, page.Posts...)
		}
	}

	return page, nil
}
