// internal/workers/products/index-trending-product/handler.go
package indextrendingproduct

import (
	"context"
	"fmt"
	"time"

	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/database"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/metrics"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/models"
	"dropship-workers/internal/scoring"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = registry.TaskIndexTrendingProduct

const reasonBelowMedium = "potential below medium"

type Handler struct {
	config     *Config
	es         *database.ElasticsearchClient
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Elasticsearch *database.ElasticsearchClient
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Elasticsearch == nil {
		return nil, fmt.Errorf("%s requires an elasticsearch client", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		es:         opts.Elasticsearch,
		registry:   opts.Registry,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}, nil
}

// EnsureIndex creates the trending index if it is missing.
func (h *Handler) EnsureIndex(ctx context.Context) error {
	if err := h.es.EnsureIndex(ctx, h.config.Index, TrendingIndexMapping); err != nil {
		return errors.NewSearchIndexFailedError(h.config.Index, err)
	}
	return nil
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
	h.logger.Info("trending index updated", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"productId": output.ProductID,
		"indexed":   output.Indexed,
		"removed":   output.Removed,
		"reason":    output.Reason,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, done func(string), start time.Time) {
	done(string(errors.AsStandardError(err).Code))
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute indexes products with at least medium potential, or any product
// when Force is set. Products that no longer qualify are removed from the
// index when RemoveStale is on.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ProductID == "" {
		return nil, errors.NewValidationError("productId is required")
	}
	if input.Analysis == nil {
		return nil, errors.NewValidationError("analysis is required")
	}

	out := &Output{ProductID: input.ProductID, Index: h.config.Index}

	if !input.Force && !qualifies(input.Analysis.Potential) {
		out.Reason = reasonBelowMedium
		if h.config.RemoveStale {
			if err := h.es.DeleteDocument(ctx, h.config.Index, input.ProductID); err != nil {
				return nil, errors.NewSearchIndexFailedError(h.config.Index, err).
					WithMetadata("productId", input.ProductID)
			}
			out.Removed = true
		}
		return out, nil
	}

	doc := h.buildDocument(input)
	if err := h.es.IndexDocument(ctx, h.config.Index, input.ProductID, doc); err != nil {
		return nil, errors.NewSearchIndexFailedError(h.config.Index, err).
			WithMetadata("productId", input.ProductID)
	}

	out.Indexed = true
	return out, nil
}

func qualifies(p scoring.Potential) bool {
	return p == scoring.PotentialHigh || p == scoring.PotentialMedium
}

func (h *Handler) buildDocument(input *Input) models.TrendingProduct {
	a := input.Analysis
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	doc := models.TrendingProduct{
		ProductID:      input.ProductID,
		URL:            input.URL,
		ViralScore:     a.TotalScore,
		ViralPotential: a.Potential,
		IsWinner:       a.IsWinner,
		Breakdown:      a.Breakdown,
		Reasons:        reasons,
		SuggestedPrice: a.SuggestedPrice,
		IndexedAt:      h.now().UTC(),
	}

	if p := input.Product; p != nil {
		doc.Title = p.Title
		doc.Source = p.Source
		doc.Rating = p.Rating
		doc.ReviewCount = p.ReviewCount
		doc.OrderCount = p.OrderCount
	}

	return doc
}
