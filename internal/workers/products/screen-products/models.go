// internal/workers/products/screen-products/models.go
package screenproducts

import "dropship-workers/internal/scoring"

type ProductItem struct {
	ProductID string `json:"productId,omitempty"`
	scoring.ProductSignal
}

type Input struct {
	Products      []ProductItem `json:"products"`
	ApplyCriteria bool          `json:"applyCriteria"`
	Concurrency   int           `json:"concurrency,omitempty"`
}

// ScreenedProduct is one input product. Analysis is nil when the product
// was dropped by the minimum-criteria prefilter.
type ScreenedProduct struct {
	Index         int                      `json:"index"`
	ProductID     string                   `json:"productId,omitempty"`
	Title         string                   `json:"title,omitempty"`
	MeetsCriteria bool                     `json:"meetsCriteria"`
	Analysis      *scoring.ProductAnalysis `json:"analysis"`
}

type Output struct {
	Results  []ScreenedProduct `json:"results"`
	Scored   int               `json:"scored"`
	Filtered int               `json:"filtered"`
	Winners  int               `json:"winners"`
	Ranking  []int             `json:"ranking"`
}
