// internal/workers/products/save-product-analysis/models.go
package saveproductanalysis

import (
	"time"

	"dropship-workers/internal/scoring"
)

type Input struct {
	ProductID string                   `json:"productId"`
	Analysis  *scoring.ProductAnalysis `json:"analysis"`
}

type Output struct {
	ProductID  string    `json:"productId"`
	Saved      bool      `json:"saved"`
	HistoryID  string    `json:"historyId,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}
