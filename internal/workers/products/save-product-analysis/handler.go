// internal/workers/products/save-product-analysis/handler.go
package saveproductanalysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/metrics"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/models"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = registry.TaskSaveProductAnalysis

type Handler struct {
	config     *Config
	db         *sql.DB
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	DB            *sql.DB
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.DB == nil {
		return nil, fmt.Errorf("%s requires a database connection", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		db:         opts.DB,
		registry:   opts.Registry,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
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
	h.logger.Info("product analysis saved", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"productId": output.ProductID,
		"historyId": output.HistoryID,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, done func(string), start time.Time) {
	done(string(errors.AsStandardError(err).Code))
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute writes the analysis onto the product row. A missing row is a
// business error; the history insert is best effort.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ProductID == "" {
		return nil, errors.NewValidationError("productId is required")
	}
	if input.Analysis == nil {
		return nil, errors.NewValidationError("analysis is required")
	}

	record := models.NewAnalysisRecord(input.ProductID, input.Analysis, h.now())

	reasons, err := json.Marshal(record.ViralReasons)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	warnings, err := json.Marshal(record.ViralWarnings)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	res, err := h.db.ExecContext(ctx, `
		UPDATE products SET
			viral_score = $1,
			viral_potential = $2,
			viral_reasons = $3,
			viral_warnings = $4,
			is_winner = $5,
			suggested_price = $6,
			analyzed_at = $7,
			updated_at = $7
		WHERE id = $8`,
		record.ViralScore,
		string(record.ViralPotential),
		reasons,
		warnings,
		record.IsWinner,
		record.SuggestedPrice.StringFixed(2),
		record.AnalyzedAt,
		record.ProductID,
	)
	if err != nil {
		return nil, errors.NewAnalysisPersistFailedError(input.ProductID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.NewAnalysisPersistFailedError(input.ProductID, err)
	}
	if rows == 0 {
		return nil, errors.NewProductNotFoundError(input.ProductID)
	}

	out := &Output{
		ProductID:  record.ProductID,
		Saved:      true,
		AnalyzedAt: record.AnalyzedAt,
	}
	if h.config.RecordHistory {
		out.HistoryID = h.recordHistory(ctx, record, input)
	}
	return out, nil
}

func (h *Handler) recordHistory(ctx context.Context, record models.ProductAnalysisRecord, input *Input) string {
	payload, err := json.Marshal(input.Analysis)
	if err != nil {
		h.logger.Warn("failed to marshal analysis history", map[string]interface{}{
			"productId": record.ProductID,
			"error":     err,
		})
		return ""
	}

	id := uuid.New().String()
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO product_analysis_history (
			id, product_id, viral_score, viral_potential, is_winner, analysis, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id,
		record.ProductID,
		record.ViralScore,
		string(record.ViralPotential),
		record.IsWinner,
		payload,
		record.AnalyzedAt,
	)
	if err != nil {
		h.logger.Warn("failed to record analysis history", map[string]interface{}{
			"productId": record.ProductID,
			"error":     err,
		})
		return ""
	}
	return id
}
