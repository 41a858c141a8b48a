// cmd/tools/step-recheck/main.go

// step-recheck walks every open draft and re-derives its current step from
// the data. Run after a rule change: positions ahead of what the snapshot
// still supports get pulled back, so no applicant resumes past broken data.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"rental-wizard/internal/common/config"
	"rental-wizard/internal/common/database"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/store"
	"rental-wizard/internal/wizard/catalog"
	"rental-wizard/internal/wizard/validate"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report step changes without writing them")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	documents := store.NewDocumentStore(pg.DB, redisClient.Client,
		config.GetDuration(cfg.Autosave.DocumentCacheTTL), log)
	drafts := store.NewDraftStore(pg.DB, documents, log)

	open, err := drafts.ListOpenDrafts(ctx)
	if err != nil {
		zapLog.Fatal("draft listing failed", zap.Error(err))
	}

	checked := 0
	changed := 0
	failed := 0
	for _, draft := range open {
		checked++

		docs, err := documents.ExistingDocuments(ctx, draft.ApplicantID)
		if err != nil {
			failed++
			zapLog.Error("document lookup failed",
				zap.String("draftId", draft.ID),
				zap.Error(err))
			continue
		}

		frontier := catalog.StepCount - 1
		if step, found := validate.FirstInvalidStep(&draft.Snapshot, validate.Context{Docs: docs}); found {
			frontier = int(step)
		}
		if draft.CurrentStep <= frontier {
			continue
		}

		changed++
		if *dryRun {
			zapLog.Info("would adjust step",
				zap.String("draftId", draft.ID),
				zap.Int("storedStep", draft.CurrentStep),
				zap.Int("authoritativeStep", frontier))
			continue
		}

		authoritative, err := drafts.SaveStep(ctx, draft.ID, &draft.Snapshot, frontier)
		if err != nil {
			failed++
			zapLog.Error("recheck failed",
				zap.String("draftId", draft.ID),
				zap.Error(err))
			continue
		}
		zapLog.Info("step adjusted",
			zap.String("draftId", draft.ID),
			zap.Int("storedStep", draft.CurrentStep),
			zap.Int("authoritativeStep", authoritative))
	}

	zapLog.Info("recheck complete",
		zap.Int("checked", checked),
		zap.Int("changed", changed),
		zap.Int("failed", failed))

	if failed > 0 {
		os.Exit(1)
	}
}
