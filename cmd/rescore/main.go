// Command rescore runs a full ranking recomputation over every active post
// and exits. Operators use it after retuning ranking weights.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/observability"
	"ripple/internal/ranking"
	"ripple/internal/repository"
	"ripple/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogging(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	settings := config.NewSettings(nil)
	rescorer := worker.NewRescorer(
		repository.NewPostRepository(db),
		ranking.NewEngine(settings),
		settings,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := rescorer.RecalculateAll(ctx)
	if err != nil {
		log.Fatalf("Full rescore aborted after %d posts: %v", report.Succeeded, err)
	}
	log.Printf("Full rescore complete: %d selected, %d succeeded, %d failed",
		report.Selected, report.Succeeded, report.Failed)
}
