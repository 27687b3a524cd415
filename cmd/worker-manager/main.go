// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "dropship-workers/internal/common/aws"
	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/database"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/scoring"
	"dropship-workers/pkg/registry"

	ep "dropship-workers/internal/workers/products/estimate-price"
	itp "dropship-workers/internal/workers/products/index-trending-product"
	nw "dropship-workers/internal/workers/products/notify-winner"
	spa "dropship-workers/internal/workers/products/save-product-analysis"
	sp "dropship-workers/internal/workers/products/score-product"
	scr "dropship-workers/internal/workers/products/screen-products"
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

// dependencies are the shared connections handed to every worker.
type dependencies struct {
	zeebe    *camunda.Client
	pg       *database.PostgresClient
	redis    *database.RedisClient
	es       *database.ElasticsearchClient
	engine   *scoring.Engine
	registry *registry.ActivityRegistry
	obs      *observability.Observability
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.Build(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err), zap.String("path", cfg.RegistryPath))
	}

	scoringCfg := cfg.Scoring.ToScoringConfig()
	if err := scoringCfg.Validate(); err != nil {
		zapLog.Fatal("scoring config rejected", zap.Error(errors.NewScoringConfigInvalidError(err)))
	}
	if !scoringCfg.WeightsNormalized(0.001) {
		zapLog.Warn("scoring weights do not sum to 1.0", zap.Float64("sum", scoringCfg.Weights.Sum()))
	}

	deps := &dependencies{
		engine:   scoring.NewEngine(scoringCfg),
		registry: reg,
		obs:      obs,
	}

	// --- Init Zeebe Client with retry ---
	err = retryWithBackoff(func() error {
		var err error
		deps.zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer deps.zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	err = retryWithBackoff(func() error {
		var err error
		deps.pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return deps.pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(errors.NewDatabaseConnectionFailedError(err)))
	}
	defer deps.pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	deps.redis = database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return deps.redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(errors.NewDatabaseConnectionFailedError(err)))
	}
	defer deps.redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	err = retryWithBackoff(func() error {
		var err error
		deps.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		return deps.es.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(errors.NewElasticsearchConnectionFailedError(err)))
	}
	zapLog.Info("Elasticsearch connected successfully")

	workers := registerWorkers(ctx, cfg, deps, log, zapLog)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := newHTTPServer(cfg.Server.Address, deps)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range workers {
		jw.Close()
		jw.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

// registerWorkers builds each enabled handler and opens its job worker. A
// handler that fails to build is logged and skipped.
func registerWorkers(ctx context.Context, cfg *config.Config, deps *dependencies, log logger.Logger, zapLog *zap.Logger) []worker.JobWorker {
	var workers []worker.JobWorker
	zc := deps.zeebe.GetClient()

	start := func(taskType string, handler camunda.JobHandler, err error) {
		if err != nil {
			zapLog.Error("worker not started", zap.String("taskType", taskType), zap.Error(err))
			return
		}
		workers = append(workers, camunda.StartWorker(zc, taskType, config.GetWorkerConfig(cfg, taskType), handler, log))
	}

	if config.IsWorkerEnabled(cfg, sp.TaskType) {
		h, err := sp.NewHandler(sp.HandlerOptions{
			AppConfig:     cfg,
			Engine:        deps.engine,
			Redis:         deps.redis.Client,
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		})
		start(sp.TaskType, h, err)
	}

	if config.IsWorkerEnabled(cfg, scr.TaskType) {
		h, err := scr.NewHandler(scr.HandlerOptions{
			AppConfig:     cfg,
			Engine:        deps.engine,
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		})
		start(scr.TaskType, h, err)
	}

	if config.IsWorkerEnabled(cfg, ep.TaskType) {
		h, err := ep.NewHandler(ep.HandlerOptions{
			AppConfig:     cfg,
			Scoring:       deps.engine.Config(),
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		})
		start(ep.TaskType, h, err)
	}

	if config.IsWorkerEnabled(cfg, spa.TaskType) {
		h, err := spa.NewHandler(spa.HandlerOptions{
			AppConfig:     cfg,
			DB:            deps.pg.DB,
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		})
		start(spa.TaskType, h, err)
	}

	if config.IsWorkerEnabled(cfg, itp.TaskType) {
		h, err := itp.NewHandler(itp.HandlerOptions{
			AppConfig:     cfg,
			Elasticsearch: deps.es,
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		})
		if err == nil {
			err = h.EnsureIndex(ctx)
		}
		start(itp.TaskType, h, err)
	}

	if config.IsWorkerEnabled(cfg, nw.TaskType) {
		opts := nw.HandlerOptions{
			AppConfig:     cfg,
			Registry:      deps.registry,
			Observability: deps.obs,
			Logger:        log,
		}
		awsCfg := cfg.Integrations.AWS
		var err error
		if awsCfg.SNS.Enabled || awsCfg.SES.Enabled {
			sdkCfg, loadErr := awsclient.LoadConfig(ctx, awsCfg.Region)
			if loadErr != nil {
				err = loadErr
			} else {
				opts.Publisher = awsclient.NewPublisherFromConfig(sdkCfg)
				opts.Mailer = awsclient.NewMailerFromConfig(sdkCfg, awsCfg.SES.FromEmail)
			}
		}
		var h *nw.Handler
		if err == nil {
			h, err = nw.NewHandler(opts)
		}
		start(nw.TaskType, h, err)
	}

	return workers
}

func newHTTPServer(addr string, deps *dependencies) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK
		probe := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				return
			}
			checks[name] = "ok"
		}

		probe("zeebe", deps.zeebe.HealthCheck(ctx))
		probe("postgres", deps.pg.Ping(ctx))
		probe("redis", deps.redis.Ping(ctx))
		probe("elasticsearch", deps.es.Ping(ctx))

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
