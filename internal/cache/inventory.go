package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix     = "post:%d"
	feedPageKeyPrefix = "feed:offset:%d:%d"
)

const (
	// PostTTL bounds single-post staleness in the cache.
	PostTTL = 10 * time.Minute
	// FeedTTL is short: the anonymous feed page tolerates only brief staleness.
	FeedTTL = 30 * time.Second
)

// PostKey is the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// FeedPageKey is the cache key for an anonymous offset feed page.
func FeedPageKey(limit, offset int) string {
	return fmt.Sprintf(feedPageKeyPrefix, limit, offset)
}

// Invalidate deletes a single key. A nil client makes this a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached copy of one post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateFeed drops every cached feed page. Any mutation that can reorder
// the feed (engagement, moderation, rescoring) calls this.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:offset:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
