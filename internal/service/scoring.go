package service

import (
	"context"
	"time"

	"ripple/internal/models"
	"ripple/internal/ranking"
	"ripple/internal/repository"
)

// scoreInputs projects a post into the scoring engine's input shape.
func scoreInputs(p *models.Post) ranking.Inputs {
	return ranking.Inputs{
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		EditCount:    p.EditCount,
		IsEdited:     p.IsEdited,
		CreatedAt:    p.CreatedAt,
		Multiplier:   p.SubscriptionMultiplier,
	}
}

// rescorePost reloads the post, recomputes its score from current counters,
// and persists it. Engagement-triggered rescoring is synchronous; the batch
// path exists only for time-decay staleness.
func rescorePost(ctx context.Context, posts repository.PostRepository, engine *ranking.Engine, postID uint) (*models.Post, error) {
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	score := engine.Score(scoreInputs(post), now)
	if err := posts.UpdateScore(ctx, post.ID, score, now); err != nil {
		return nil, err
	}

	post.RankingScore = score
	post.ScoreComputedAt = &now
	return post, nil
}
