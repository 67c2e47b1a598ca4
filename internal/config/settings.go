package config

import (
	"time"

	"github.com/spf13/viper"

	"ripple/internal/ranking"
)

// Settings keys for the hot-reloadable tunables. Operators retune the ranking
// algorithm by editing these; every accessor below re-reads viper, so no
// value is cached across calls.
const (
	keyGravity       = "ranking.gravity"
	keyLikeWeight    = "ranking.like_weight"
	keyCommentWeight = "ranking.comment_weight"
	keyShareWeight   = "ranking.share_weight"
	keyFreshness     = "ranking.freshness_base"
	keyEditPenalty   = "ranking.edit_penalty"

	keyMultiplierFree  = "ranking.multiplier.free"
	keyMultiplierPro   = "ranking.multiplier.pro"
	keyMultiplierElite = "ranking.multiplier.elite"

	keyMediaEditWindow  = "posts.media_edit_window_hours"
	keyMaxPostLength    = "posts.max_content_length"
	keyMaxCommentLength = "comments.max_length"
	keyReplyPreview     = "comments.reply_preview"

	keyRescoreInterval  = "rescore.interval"
	keyRescoreStaleness = "rescore.staleness"
	keyRescoreBatchSize = "rescore.batch_size"

	keyFeaturedLimit = "feed.featured_limit"
)

// Settings is the injected read interface for all runtime-tunable parameters.
// The zero-value-like NewSettings(nil) reads the process-global viper that
// LoadConfig configured and watches.
type Settings struct {
	v *viper.Viper
}

// NewSettings returns a Settings provider over v, or over the global viper
// when v is nil.
func NewSettings(v *viper.Viper) *Settings {
	if v == nil {
		v = viper.GetViper()
	}
	v.SetDefault(keyGravity, 1.5)
	v.SetDefault(keyLikeWeight, 1.0)
	v.SetDefault(keyCommentWeight, 2.0)
	v.SetDefault(keyShareWeight, 3.0)
	v.SetDefault(keyFreshness, 10.0)
	v.SetDefault(keyEditPenalty, 0.5)
	v.SetDefault(keyMultiplierFree, 1.0)
	v.SetDefault(keyMultiplierPro, 1.25)
	v.SetDefault(keyMultiplierElite, 1.5)
	v.SetDefault(keyMediaEditWindow, 24)
	v.SetDefault(keyMaxPostLength, 10000)
	v.SetDefault(keyMaxCommentLength, 2000)
	v.SetDefault(keyReplyPreview, 3)
	v.SetDefault(keyRescoreInterval, "5m")
	v.SetDefault(keyRescoreStaleness, "15m")
	v.SetDefault(keyRescoreBatchSize, 500)
	v.SetDefault(keyFeaturedLimit, 3)
	return &Settings{v: v}
}

// RankingWeights implements ranking.WeightSource. Weights are read at call
// time so the scoring engine always sees the latest configuration.
func (s *Settings) RankingWeights() ranking.Weights {
	return ranking.Weights{
		Like:        s.v.GetFloat64(keyLikeWeight),
		Comment:     s.v.GetFloat64(keyCommentWeight),
		Share:       s.v.GetFloat64(keyShareWeight),
		Freshness:   s.v.GetFloat64(keyFreshness),
		Gravity:     s.v.GetFloat64(keyGravity),
		EditPenalty: s.v.GetFloat64(keyEditPenalty),
	}
}

// PlanMultiplier returns the score multiplier for a subscription plan.
// Unknown plans fall back to the free multiplier.
func (s *Settings) PlanMultiplier(plan string) float64 {
	switch plan {
	case "pro":
		return s.v.GetFloat64(keyMultiplierPro)
	case "elite":
		return s.v.GetFloat64(keyMultiplierElite)
	default:
		return s.v.GetFloat64(keyMultiplierFree)
	}
}

// MediaEditWindow is how long after creation a post's media may be changed.
func (s *Settings) MediaEditWindow() time.Duration {
	return time.Duration(s.v.GetInt(keyMediaEditWindow)) * time.Hour
}

// MaxPostLength is the maximum post content length in characters.
func (s *Settings) MaxPostLength() int {
	return s.v.GetInt(keyMaxPostLength)
}

// MaxCommentLength is the maximum comment content length in characters.
func (s *Settings) MaxCommentLength() int {
	return s.v.GetInt(keyMaxCommentLength)
}

// ReplyPreview is the number of replies nested under each top-level comment
// in paginated comment listings.
func (s *Settings) ReplyPreview() int {
	return s.v.GetInt(keyReplyPreview)
}

// RescoreInterval is how often the batch rescorer wakes up.
func (s *Settings) RescoreInterval() time.Duration {
	return s.v.GetDuration(keyRescoreInterval)
}

// RescoreStaleness is the maximum age of a cached score before the batch
// rescorer is obligated to recompute it.
func (s *Settings) RescoreStaleness() time.Duration {
	return s.v.GetDuration(keyRescoreStaleness)
}

// RescoreBatchSize caps how many posts a single batch run touches.
func (s *Settings) RescoreBatchSize() int {
	return s.v.GetInt(keyRescoreBatchSize)
}

// FeaturedLimit is the number of featured posts prepended to the first
// cursor page.
func (s *Settings) FeaturedLimit() int {
	return s.v.GetInt(keyFeaturedLimit)
}
