// internal/workers/products/score-product/handler.go
package scoreproduct

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/metrics"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/scoring"
	"dropship-workers/internal/signal"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const TaskType = registry.TaskScoreProduct

type Handler struct {
	config     *Config
	engine     *scoring.Engine
	configHash string
	redis      *redis.Client
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        *scoring.Engine
	Redis         *redis.Client
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

// NewHandler builds the handler. Without an Engine, one is built from the
// scoring section of AppConfig. A nil Redis disables the analysis cache.
func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	engine := opts.Engine
	if engine == nil {
		var sc *scoring.Config
		if opts.AppConfig != nil {
			sc = opts.AppConfig.Scoring.ToScoringConfig()
		}
		engine = scoring.NewEngine(sc)
	}

	hash, err := hashJSON(engine.Config())
	if err != nil {
		return nil, fmt.Errorf("hash scoring config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		engine:     engine,
		configHash: hash,
		redis:      opts.Redis,
		registry:   opts.Registry,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	done := metrics.TrackJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	var input Input
	if err := camunda.DecodeVariables(job, h.registry, &input); err != nil {
		h.fail(ctx, client, job, err, done, start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, done, start)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		done(string(errors.AsStandardError(err).Code))
		h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
		return
	}

	done("")
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(start))
	h.logger.Info("product scored", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"productId":  output.ProductID,
		"score":      output.ViralScore,
		"potential":  output.ViralPotential,
		"isWinner":   output.IsWinner,
		"cached":     output.Cached,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, done func(string), start time.Time) {
	done(string(errors.AsStandardError(err).Code))
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute scores the input, serving repeated signals from the cache.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	sig, err := resolveSignal(input)
	if err != nil {
		return nil, err
	}
	sig = scoring.Sanitize(sig)

	key, err := h.cacheKey(sig)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var analysis *scoring.ProductAnalysis
	cached := false
	if !input.SkipCache {
		analysis = h.lookup(ctx, key)
		cached = analysis != nil
	}
	if analysis == nil {
		analysis = h.engine.Analyze(sig)
		h.store(ctx, key, analysis)
	}

	metrics.ObserveAnalysis(sig.Source.Label(), string(analysis.Potential), analysis.TotalScore, analysis.IsWinner)
	h.obs.RecordScore(ctx, sig.Source.Label(), string(analysis.Potential), analysis.TotalScore)

	return &Output{
		ProductID:      input.ProductID,
		AnalysisID:     uuid.NewString(),
		Signal:         sig,
		Analysis:       analysis,
		MeetsCriteria:  h.engine.Config().MeetsMinimumCriteria(sig),
		Cached:         cached,
		ViralScore:     analysis.TotalScore,
		ViralPotential: analysis.Potential,
		ViralReasons:   analysis.Reasons,
		IsWinner:       analysis.IsWinner,
	}, nil
}

func resolveSignal(input *Input) (scoring.ProductSignal, error) {
	switch {
	case input.Signal != nil:
		return *input.Signal, nil
	case input.Listing != nil:
		return signal.FromRaw(*input.Listing), nil
	default:
		return scoring.ProductSignal{}, errors.NewInvalidProductSignalError("either signal or listing is required")
	}
}

// cacheKey covers both the signal and the scoring config, so a config
// change never serves stale analyses.
func (h *Handler) cacheKey(sig scoring.ProductSignal) (string, error) {
	sigHash, err := hashJSON(sig)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(sigHash + ":" + h.configHash))
	return h.config.CacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func (h *Handler) lookup(ctx context.Context, key string) *scoring.ProductAnalysis {
	if h.redis == nil {
		return nil
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.AnalysisCacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	if err != nil {
		metrics.AnalysisCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("analysis cache read failed", map[string]interface{}{
			"error": errors.NewAnalysisCacheFailedError(err),
		})
		return nil
	}

	var analysis scoring.ProductAnalysis
	if err := json.Unmarshal([]byte(val), &analysis); err != nil {
		metrics.AnalysisCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("discarding corrupt cached analysis", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return nil
	}

	metrics.AnalysisCacheLookups.WithLabelValues("hit").Inc()
	return &analysis
}

func (h *Handler) store(ctx context.Context, key string, analysis *scoring.ProductAnalysis) {
	if h.redis == nil {
		return
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("analysis cache write failed", map[string]interface{}{
			"error": errors.NewAnalysisCacheFailedError(err),
		})
	}
}

func hashJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
