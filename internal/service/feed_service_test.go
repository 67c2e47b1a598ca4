package service

import (
	"context"
	"testing"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedPosts(n int, topScore float64) []*models.Post {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, &models.Post{
			ID:           uint(100 - i),
			Status:       models.PostStatusActive,
			RankingScore: topScore - float64(i),
		})
	}
	return posts
}

func TestListFeed_DelegatesToRankedQuery(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	var gotLimit, gotOffset int
	posts.listRankedFn = func(_ context.Context, limit, offset int, excludeAuthor uint, _ time.Time) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		assert.Zero(t, excludeAuthor)
		return rankedPosts(3, 50), nil
	}

	svc := NewFeedService(posts, testSettings())
	// A deep offset bypasses the front-page cache.
	got, err := svc.ListFeed(context.Background(), 20, 200)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 200, gotOffset)
}

func TestDiscover_ExcludesCaller(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	var gotExclude uint
	posts.listRankedFn = func(_ context.Context, _, _ int, excludeAuthor uint, _ time.Time) ([]*models.Post, error) {
		gotExclude = excludeAuthor
		return nil, nil
	}

	svc := NewFeedService(posts, testSettings())
	_, err := svc.Discover(context.Background(), 20, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), gotExclude)
}

func TestCursorFeed_FirstPagePrependsFeatured(t *testing.T) {
	t.Parallel()

	ranked := rankedPosts(5, 40)
	featured := []*models.Post{
		{ID: 900, IsFeatured: true, RankingScore: 1},
		{ID: 901, IsFeatured: true, RankingScore: 2},
	}

	posts := noopPostRepo()
	posts.listCursorFn = func(_ context.Context, limit int, after *repository.FeedCursor, _ time.Time) ([]*models.Post, error) {
		assert.Nil(t, after)
		return ranked, nil
	}
	var featuredLimit int
	posts.listFeaturedFn = func(_ context.Context, limit int, _ time.Time) ([]*models.Post, error) {
		featuredLimit = limit
		return featured, nil
	}

	svc := NewFeedService(posts, testSettings())
	page, err := svc.CursorFeed(context.Background(), 5, nil)
	require.NoError(t, err)

	require.Len(t, page.Posts, 7)
	assert.Equal(t, uint(900), page.Posts[0].ID)
	assert.Equal(t, uint(901), page.Posts[1].ID)
	assert.Equal(t, 3, featuredLimit)

	// The cursor derives from the ranked batch alone; pinned posts never
	// distort the keyset.
	require.NotNil(t, page.NextCursor)
	last := ranked[len(ranked)-1]
	assert.Equal(t, last.RankingScore, page.NextCursor.Score)
	assert.Equal(t, last.ID, page.NextCursor.ID)
	assert.True(t, page.HasMore)
}

func TestCursorFeed_LaterPagesSkipFeatured(t *testing.T) {
	t.Parallel()

	after := &repository.FeedCursor{Score: 36, ID: 96}

	posts := noopPostRepo()
	posts.listCursorFn = func(_ context.Context, _ int, got *repository.FeedCursor, _ time.Time) ([]*models.Post, error) {
		assert.Equal(t, after, got)
		return rankedPosts(2, 35), nil
	}
	posts.listFeaturedFn = func(_ context.Context, _ int, _ time.Time) ([]*models.Post, error) {
		t.Fatal("featured posts belong only on the first page")
		return nil, nil
	}

	svc := NewFeedService(posts, testSettings())
	page, err := svc.CursorFeed(context.Background(), 5, after)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.False(t, page.HasMore, "a short batch signals the end of the feed")
}

func TestCursorFeed_EmptyFeed(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(noopPostRepo(), testSettings())
	page, err := svc.CursorFeed(context.Background(), 5, &repository.FeedCursor{Score: 1, ID: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextCursor)
	assert.False(t, page.HasMore)
}
