// internal/workers/products/notify-winner/handler.go
package notifywinner

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsclient "dropship-workers/internal/common/aws"
	"dropship-workers/internal/common/camunda"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/common/metrics"
	"dropship-workers/internal/common/observability"
	"dropship-workers/internal/models"
	"dropship-workers/internal/scoring"
	"dropship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = registry.TaskNotifyWinner

const (
	channelSNS   = "sns"
	channelEmail = "email"
)

type Handler struct {
	config     *Config
	publisher  *awsclient.Publisher
	mailer     *awsclient.Mailer
	registry   *registry.ActivityRegistry
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Publisher     *awsclient.Publisher
	Mailer        *awsclient.Mailer
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if cfg.SNSEnabled && opts.Publisher == nil {
		return nil, fmt.Errorf("%s requires an sns publisher", TaskType)
	}
	if cfg.EmailEnabled && opts.Mailer == nil {
		return nil, fmt.Errorf("%s requires an ses mailer", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     cfg,
		publisher:  opts.Publisher,
		mailer:     opts.Mailer,
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
	h.logger.Info("winner notification handled", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"productId": output.ProductID,
		"status":    output.Status,
		"alertId":   output.AlertID,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, done func(string), start time.Time) {
	done(string(errors.AsStandardError(err).Code))
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute publishes a WinnerAlert for winning products. SNS is the primary
// channel: when it is enabled and delivered, an email failure is only logged
// so a retry does not publish the alert twice.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ProductID == "" {
		return nil, errors.NewValidationError("productId is required")
	}
	if input.Analysis == nil {
		return nil, errors.NewValidationError("analysis is required")
	}

	out := &Output{ProductID: input.ProductID, Status: StatusSkipped}
	if !input.Analysis.IsWinner {
		return out, nil
	}

	alert := h.buildAlert(input)
	out.AlertID = alert.AlertID

	if h.config.SNSEnabled {
		id, err := h.publisher.PublishJSON(ctx, h.config.TopicARN, h.config.Subject, alert, map[string]string{
			"source":    sourceLabel(input.Product),
			"potential": string(alert.Potential),
		})
		if err != nil {
			metrics.NotificationsSent.WithLabelValues(channelSNS, "failed").Inc()
			return nil, errors.NewNotificationSendFailedError(channelSNS, err).
				WithMetadata("productId", input.ProductID)
		}
		metrics.NotificationsSent.WithLabelValues(channelSNS, "sent").Inc()
		out.SNSMessageID = id
	}

	if h.config.EmailEnabled {
		id, err := h.mailer.SendText(ctx, h.config.ToEmails, emailSubject(h.config.Subject, alert), emailBody(alert))
		if err != nil {
			metrics.NotificationsSent.WithLabelValues(channelEmail, "failed").Inc()
			if out.SNSMessageID == "" {
				return nil, errors.NewNotificationSendFailedError(channelEmail, err).
					WithMetadata("productId", input.ProductID)
			}
			h.logger.Warn("winner email failed after sns delivery", map[string]interface{}{
				"productId": input.ProductID,
				"alertId":   alert.AlertID,
				"error":     err,
			})
		} else {
			metrics.NotificationsSent.WithLabelValues(channelEmail, "sent").Inc()
			out.EmailMessageID = id
		}
	}

	out.Status = StatusSent
	notifiedAt := alert.DetectedAt
	out.NotifiedAt = &notifiedAt
	return out, nil
}

func (h *Handler) buildAlert(input *Input) models.WinnerAlert {
	a := input.Analysis
	alert := models.WinnerAlert{
		AlertID:        uuid.New().String(),
		ProductID:      input.ProductID,
		URL:            input.URL,
		Score:          a.TotalScore,
		Potential:      a.Potential,
		SuggestedPrice: a.SuggestedPrice,
		Reasons:        a.Reasons,
		Warnings:       a.Warnings,
		DetectedAt:     h.now().UTC(),
	}
	if alert.Reasons == nil {
		alert.Reasons = []string{}
	}
	if alert.Warnings == nil {
		alert.Warnings = []string{}
	}
	if input.Product != nil {
		alert.Title = input.Product.Title
	}
	return alert
}

func sourceLabel(p *scoring.ProductSignal) string {
	if p == nil {
		return scoring.Source("").Label()
	}
	return p.Source.Label()
}

func emailSubject(prefix string, alert models.WinnerAlert) string {
	if alert.Title == "" {
		return fmt.Sprintf("%s: %s (%d)", prefix, alert.ProductID, alert.Score)
	}
	return fmt.Sprintf("%s: %s (%d)", prefix, alert.Title, alert.Score)
}

func emailBody(alert models.WinnerAlert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product:         %s\n", alert.ProductID)
	if alert.Title != "" {
		fmt.Fprintf(&b, "Title:           %s\n", alert.Title)
	}
	fmt.Fprintf(&b, "Score:           %d/100 (%s)\n", alert.Score, alert.Potential)
	fmt.Fprintf(&b, "Suggested price: $%s\n", alert.SuggestedPrice.StringFixed(2))
	if alert.URL != "" {
		fmt.Fprintf(&b, "Link:            %s\n", alert.URL)
	}

	if len(alert.Reasons) > 0 {
		b.WriteString("\nWhy it wins:\n")
		for _, r := range alert.Reasons {
			fmt.Fprintf(&b, "  + %s\n", r)
		}
	}
	if len(alert.Warnings) > 0 {
		b.WriteString("\nWatch out for:\n")
		for _, w := range alert.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	fmt.Fprintf(&b, "\nAlert %s detected at %s\n", alert.AlertID, alert.DetectedAt.Format(time.RFC3339))
	return b.String()
}
