// internal/workers/products/screen-products/handler.go
package screenproducts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/metrics"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/scoring"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = registry.TaskScreenProducts

type Handler struct {
	config     *Config
	engine     *scoring.Engine
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        *scoring.Engine
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

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

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		engine:     engine,
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
	h.logger.Info("products screened", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"products":   len(input.Products),
		"scored":     output.Scored,
		"filtered":   output.Filtered,
		"winners":    output.Winners,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, done func(string), start time.Time) {
	done(string(errors.AsStandardError(err).Code))
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute scores every product that passes the optional prefilter. Results
// keep input order; Ranking lists scored indices by descending total score,
// ties in input order.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Products) > h.config.MaxProducts {
		return nil, errors.NewValidationError(
			fmt.Sprintf("%d products exceeds the limit of %d", len(input.Products), h.config.MaxProducts))
	}

	cfg := h.engine.Config()
	results := make([]ScreenedProduct, len(input.Products))
	var pending []int

	for i, p := range input.Products {
		meets := cfg.MeetsMinimumCriteria(p.ProductSignal)
		results[i] = ScreenedProduct{
			Index:         i,
			ProductID:     p.ProductID,
			Title:         p.Title,
			MeetsCriteria: meets,
		}
		if meets || !input.ApplyCriteria {
			pending = append(pending, i)
		}
	}

	if err := h.scoreAll(ctx, input, results, pending, h.workerCount(input.Concurrency)); err != nil {
		return nil, err
	}

	out := &Output{
		Results:  results,
		Scored:   len(pending),
		Filtered: len(input.Products) - len(pending),
		Ranking:  append([]int{}, pending...),
	}
	for _, i := range pending {
		a := results[i].Analysis
		if a.IsWinner {
			out.Winners++
		}
		source := input.Products[i].Source.Label()
		metrics.ObserveAnalysis(source, string(a.Potential), a.TotalScore, a.IsWinner)
		h.obs.RecordScore(ctx, source, string(a.Potential), a.TotalScore)
	}

	sort.SliceStable(out.Ranking, func(a, b int) bool {
		return results[out.Ranking[a]].Analysis.TotalScore > results[out.Ranking[b]].Analysis.TotalScore
	})

	return out, nil
}

func (h *Handler) scoreAll(ctx context.Context, input *Input, results []ScreenedProduct, pending []int, workers int) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, idx := range pending {
		if ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case sem <- struct{}{}:
			}
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return errors.NewTimeoutError("screen products", err)
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Analysis = h.engine.Analyze(input.Products[i].ProductSignal)
		}(idx)
	}

	wg.Wait()
	return nil
}

func (h *Handler) workerCount(requested int) int {
	if requested > 0 && requested < h.config.Concurrency {
		return requested
	}
	return h.config.Concurrency
}
