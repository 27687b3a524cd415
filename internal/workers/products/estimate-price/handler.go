// internal/workers/products/estimate-price/handler.go
package estimateprice

import (
	"context"
	"fmt"
	"math"
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
	"github.com/shopspring/decimal"
)

const TaskType = registry.TaskEstimatePrice

var hundred = decimal.NewFromInt(100)

type Handler struct {
	config     *Config
	scoring    *scoring.Config
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Scoring       *scoring.Config
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	sc := opts.Scoring
	if sc == nil {
		if opts.AppConfig != nil {
			sc = opts.AppConfig.Scoring.ToScoringConfig()
		} else {
			sc = scoring.DefaultConfig()
		}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		scoring:    sc,
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
		done(string(errors.AsStandardError(err).Code))
		h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output := h.Execute(&input)

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
	h.logger.Info("price estimated", map[string]interface{}{
		"jobKey":         job.GetKey(),
		"source":         output.Source,
		"suggestedPrice": output.SuggestedPrice.String(),
		"listingPrice":   output.ListingPrice.String(),
	})
}

// Execute never fails. An unknown supplier price suggests nothing, and the
// caller's price, when positive, becomes the listing price.
func (h *Handler) Execute(input *Input) *Output {
	supplier := clean(input.SupplierPrice)
	out := &Output{
		Source:          input.Source,
		Markup:          h.scoring.Markup(input.Source),
		SuggestedPrice:  decimal.Zero,
		EstimatedProfit: decimal.Zero,
		MarginPct:       decimal.Zero,
	}

	if supplier > 0 {
		out.SuggestedPrice = h.scoring.EstimatePrice(supplier, input.Source)
	}

	out.ListingPrice = out.SuggestedPrice
	if callerPrice := clean(input.Price); callerPrice > 0 {
		out.ListingPrice = decimal.NewFromFloat(callerPrice)
		out.PriceOverridden = true
	}

	if supplier > 0 && out.ListingPrice.IsPositive() {
		profit := out.ListingPrice.Sub(decimal.NewFromFloat(supplier)).Sub(scoring.FlatFee)
		out.EstimatedProfit = profit.Round(2)
		out.MarginPct = profit.Div(out.ListingPrice).Mul(hundred).Round(1)
	}

	return out
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
