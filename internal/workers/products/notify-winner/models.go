// internal/workers/products/notify-winner/models.go
package notifywinner

import (
	"time"

	"dropship-workers/internal/scoring"
)

const (
	StatusSent    = "SENT"
	StatusSkipped = "SKIPPED"
)

type Input struct {
	ProductID string                   `json:"productId"`
	Analysis  *scoring.ProductAnalysis `json:"analysis"`
	Product   *scoring.ProductSignal   `json:"product,omitempty"`
	URL       string                   `json:"url,omitempty"`
}

type Output struct {
	ProductID      string     `json:"productId"`
	Status         string     `json:"status"`
	AlertID        string     `json:"alertId,omitempty"`
	SNSMessageID   string     `json:"snsMessageId,omitempty"`
	EmailMessageID string     `json:"emailMessageId,omitempty"`
	NotifiedAt     *time.Time `json:"notifiedAt,omitempty"`
}
