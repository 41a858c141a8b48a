// cmd/wizard-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rental-wizard/internal/common/aws"
	"rental-wizard/internal/common/camunda"
	"rental-wizard/internal/common/config"
	"rental-wizard/internal/common/crm"
	"rental-wizard/internal/common/database"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/common/observability"
	"rental-wizard/internal/hooks"
	"rental-wizard/internal/store"
	"rental-wizard/internal/wizard/submit"
	"rental-wizard/internal/wizard/validate"

	commonErrors "rental-wizard/internal/common/errors"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wizard manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("wizard-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	documents := store.NewDocumentStore(pg.DB, redisClient.Client,
		config.GetDuration(cfg.Autosave.DocumentCacheTTL), log)
	drafts := store.NewDraftStore(pg.DB, documents, log)
	profiles := store.NewProfileStore(pg.DB, log)

	// --- Post-submission hooks ---
	// The submission succeeds without any of these; an unreachable broker or
	// index at startup disables that hook, it does not block the service.
	var submitHooks []submit.Hook

	submitHooks = append(submitHooks, hooks.NewVerification(profiles, documents, log))

	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 5, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Warn("zeebe unavailable, review workflow hook disabled", zap.Error(err))
	} else {
		defer camundaClient.Close()
		submitHooks = append(submitHooks, hooks.NewReviewWorkflow(camundaClient, cfg.Camunda.ReviewProcessID, log))
		zapLog.Info("Zeebe client connected successfully")
	}

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Warn("elasticsearch unavailable, search indexing hook disabled", zap.Error(err))
	} else {
		submitHooks = append(submitHooks, hooks.NewSearchIndexer(esClient.Client, cfg.Search.ApplicationsIndex, log))
		zapLog.Info("Elasticsearch client initialized")
	}

	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, sesErr := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		snsClient, snsErr := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if sesErr != nil || snsErr != nil {
			zapLog.Warn("aws client init failed, notification hook disabled",
				zap.NamedError("ses", sesErr), zap.NamedError("sns", snsErr))
		} else {
			submitHooks = append(submitHooks, hooks.NewNotifier(
				sesClient,
				snsClient,
				cfg.Integrations.AWS.SES.FromEmail,
				cfg.Integrations.AWS.SNS.Enabled,
				log,
			))
			zapLog.Info("Notification clients initialized")
		}
	}

	if cfg.Integrations.CRM.BaseURL != "" {
		crmClient := crm.NewClient(cfg.Integrations.CRM.BaseURL, cfg.Integrations.CRM.OAuthToken)
		submitHooks = append(submitHooks, hooks.NewCRMSync(crmClient, log))
		zapLog.Info("CRM client initialized")
	}

	orchestrator := submit.New(drafts, submitHooks, log)

	zapLog.Info("Wizard core wired", zap.Int("hooks", len(submitHooks)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/applications/submit", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var body struct {
				DraftID string `json:"draft_id"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DraftID == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			draft, err := drafts.Get(r.Context(), body.DraftID)
			if err != nil {
				writeError(w, err)
				return
			}
			profile, err := profiles.Get(r.Context(), draft.ApplicantID)
			if err != nil {
				writeError(w, err)
				return
			}
			docs, err := documents.ExistingDocuments(r.Context(), draft.ApplicantID)
			if err != nil {
				writeError(w, err)
				return
			}

			app, rejection, err := orchestrator.Submit(r.Context(), draft, profile, validate.Context{
				Docs: docs,
				Now:  time.Now().UTC(),
			})
			if err != nil {
				writeError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if rejection != nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(rejection)
				return
			}
			json.NewEncoder(w).Encode(app)
		})

		http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			status := "healthy"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.ListenAddr))
		if err := http.ListenAndServe(cfg.App.ListenAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	zapLog.Info("Wizard manager stopped gracefully")
}

// writeError maps error codes to HTTP statuses for the submit endpoint.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	code := commonErrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case commonErrors.ErrCodeDraftNotFound, commonErrors.ErrCodeProfileNotFound:
		status = http.StatusNotFound
	case commonErrors.ErrCodeAlreadySubmitted:
		status = http.StatusConflict
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}
