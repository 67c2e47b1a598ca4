// Package worker runs the periodic batch rescorer that keeps ranking scores
// decaying even when no engagement arrives.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/ranking"
	"ripple/internal/repository"

	"github.com/robfig/cron/v3"
)

// recalcChunkSize is the page size for full recalculation walks. Unlike the
// periodic batch it has no total cap.
const recalcChunkSize = 200

// Rescorer periodically recomputes stale scores in bounded batches. Runs are
// single-flighted: a tick that lands while a run is still in progress is
// skipped, not queued.
type Rescorer struct {
	posts    repository.PostRepository
	engine   *ranking.Engine
	settings *config.Settings
	cron     *cron.Cron
	running  atomic.Bool
}

// RunReport summarizes one batch run.
type RunReport struct {
	Selected  int
	Succeeded int
	Failed    int
	Skipped   bool
}

func NewRescorer(posts repository.PostRepository, engine *ranking.Engine, settings *config.Settings) *Rescorer {
	return &Rescorer{
		posts:    posts,
		engine:   engine,
		settings: settings,
	}
}

// Start schedules the periodic batch on the configured interval. The interval
// is read once here; retuning it requires a restart, unlike the weights,
// which every run re-reads.
func (r *Rescorer) Start() error {
	r.cron = cron.New()
	interval := r.settings.RescoreInterval()
	_, err := r.cron.AddFunc("@every "+interval.String(), func() {
		r.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	slog.Info("batch rescorer started", slog.Duration("interval", interval))
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish, bounded
// by ctx.
func (r *Rescorer) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	done := r.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("batch rescorer shutdown timed out")
	}
}

// RunOnce executes one bounded batch: select stale ACTIVE posts, recompute,
// persist. A failure on one post never aborts the batch, and the run is
// interruptible between posts.
func (r *Rescorer) RunOnce(ctx context.Context) RunReport {
	if !r.running.CompareAndSwap(false, true) {
		slog.Info("batch rescore skipped, previous run still in progress")
		observability.RescoreRuns.WithLabelValues("skipped").Inc()
		return RunReport{Skipped: true}
	}
	defer r.running.Store(false)

	start := time.Now()
	defer func() {
		observability.RescoreDuration.Observe(time.Since(start).Seconds())
	}()

	cutoff := start.Add(-r.settings.RescoreStaleness())
	batch, err := r.posts.FindStale(ctx, cutoff, r.settings.RescoreBatchSize())
	if err != nil {
		slog.ErrorContext(ctx, "batch rescore selection failed", slog.String("error", err.Error()))
		observability.RescoreRuns.WithLabelValues("failed").Inc()
		return RunReport{}
	}

	report := RunReport{Selected: len(batch)}
	interrupted := r.rescoreBatch(ctx, batch, &report)

	outcome := "completed"
	if interrupted {
		outcome = "interrupted"
	}
	observability.RescoreRuns.WithLabelValues(outcome).Inc()
	if len(batch) > 0 {
		cache.InvalidateFeed(ctx)
	}

	slog.InfoContext(ctx, "batch rescore finished",
		slog.Int("selected", report.Selected),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Duration("elapsed", time.Since(start)),
	)
	return report
}

// rescoreBatch processes one slice of posts, reporting true when cut short by
// context cancellation.
func (r *Rescorer) rescoreBatch(ctx context.Context, batch []*models.Post, report *RunReport) bool {
	for _, post := range batch {
		if ctx.Err() != nil {
			return true
		}

		now := time.Now()
		score := r.engine.Score(ranking.Inputs{
			LikeCount:    post.LikeCount,
			CommentCount: post.CommentCount,
			ShareCount:   post.ShareCount,
			EditCount:    post.EditCount,
			IsEdited:     post.IsEdited,
			CreatedAt:    post.CreatedAt,
			Multiplier:   post.SubscriptionMultiplier,
		}, now)

		if err := r.posts.UpdateScore(ctx, post.ID, score, now); err != nil {
			report.Failed++
			observability.RescoredPosts.WithLabelValues("error").Inc()
			slog.ErrorContext(ctx, "rescore failed for post",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		report.Succeeded++
		observability.RescoredPosts.WithLabelValues("ok").Inc()
	}
	return false
}

// RecalculateAll rescans every ACTIVE post without the batch cap. Operators
// trigger it after retuning weights; it is deliberately off the hot path and
// expected to be slow.
func (r *Rescorer) RecalculateAll(ctx context.Context) (RunReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return RunReport{Skipped: true}, models.NewInvalidStateError("A rescore run is already in progress")
	}
	defer r.running.Store(false)

	start := time.Now()
	var report RunReport
	var afterID uint

	for {
		if ctx.Err() != nil {
			observability.RescoreRuns.WithLabelValues("interrupted").Inc()
			return report, ctx.Err()
		}

		chunk, err := r.posts.ListActiveAfter(ctx, afterID, recalcChunkSize)
		if err != nil {
			observability.RescoreRuns.WithLabelValues("failed").Inc()
			return report, err
		}
		if len(chunk) == 0 {
			break
		}

		report.Selected += len(chunk)
		if r.rescoreBatch(ctx, chunk, &report) {
			observability.RescoreRuns.WithLabelValues("interrupted").Inc()
			return report, ctx.Err()
		}
		afterID = chunk[len(chunk)-1].ID
	}

	observability.RescoreRuns.WithLabelValues("completed").Inc()
	cache.InvalidateFeed(ctx)
	slog.InfoContext(ctx, "full rescore finished",
		slog.Int("selected", report.Selected),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}
