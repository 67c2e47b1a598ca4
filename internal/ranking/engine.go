// Package ranking implements the time-decay popularity score used to order
// the feed. Scoring is a pure computation over a post's counters, age, and
// frozen multiplier; persistence and scheduling live elsewhere.
package ranking

import (
	"math"
	"time"
)

// Weights are the tunable parameters of the scoring formula.
type Weights struct {
	Like        float64
	Comment     float64
	Share       float64
	Freshness   float64
	Gravity     float64
	EditPenalty float64
}

// WeightSource yields the current weights. Implementations must return the
// latest configured values on every call so that operators can retune the
// algorithm without a restart.
type WeightSource interface {
	RankingWeights() Weights
}

// Inputs are the per-post values the score is computed from.
type Inputs struct {
	LikeCount    int
	CommentCount int
	ShareCount   int
	EditCount    int
	IsEdited     bool
	CreatedAt    time.Time
	Multiplier   float64
}

// Engine computes ranking scores, re-reading weights from its source on each
// call.
type Engine struct {
	weights WeightSource
}

// NewEngine returns an Engine over the given weight source.
func NewEngine(weights WeightSource) *Engine {
	return &Engine{weights: weights}
}

// Score computes the ranking score for the given inputs at the given instant.
// The freshness base gives a brand-new post immediate visibility, the
// frozen multiplier boosts paid tiers without retroactive changes, decay
// divides by (age+1)^gravity, and the edit penalty discourages engagement
// farming through post-hoc content swaps. The result is clamped at zero.
func (e *Engine) Score(in Inputs, now time.Time) float64 {
	return ScoreWith(e.weights.RankingWeights(), in, now)
}

// ScoreWith computes the score with an explicit set of weights.
func ScoreWith(w Weights, in Inputs, now time.Time) float64 {
	engagement := float64(in.LikeCount)*w.Like +
		float64(in.CommentCount)*w.Comment +
		float64(in.ShareCount)*w.Share

	boosted := (w.Freshness + engagement) * in.Multiplier

	ageHours := now.Sub(in.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	decayed := boosted / math.Pow(ageHours+1, w.Gravity)

	if in.IsEdited {
		decayed -= float64(in.EditCount) * w.EditPenalty
	}
	if decayed < 0 {
		return 0
	}
	return decayed
}
