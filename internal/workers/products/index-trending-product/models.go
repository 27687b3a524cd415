// internal/workers/products/index-trending-product/models.go
package indextrendingproduct

import "dropship-workers/internal/scoring"

type Input struct {
	ProductID string                   `json:"productId"`
	Analysis  *scoring.ProductAnalysis `json:"analysis"`
	Product   *scoring.ProductSignal   `json:"product,omitempty"`
	URL       string                   `json:"url,omitempty"`
	Force     bool                     `json:"force,omitempty"`
}

type Output struct {
	ProductID string `json:"productId"`
	Index     string `json:"index"`
	Indexed   bool   `json:"indexed"`
	Removed   bool   `json:"removed"`
	Reason    string `json:"reason,omitempty"`
}

// TrendingIndexMapping is the index body used when the trending index does
// not exist yet.
const TrendingIndexMapping = `{
  "mappings": {
    "properties": {
      "productId":      {"type": "keyword"},
      "title":          {"type": "text"},
      "url":            {"type": "keyword", "index": false},
      "source":         {"type": "keyword"},
      "viralScore":     {"type": "integer"},
      "viralPotential": {"type": "keyword"},
      "isWinner":       {"type": "boolean"},
      "breakdown":      {"type": "object"},
      "reasons":        {"type": "text"},
      "suggestedPrice": {"type": "scaled_float", "scaling_factor": 100},
      "rating":         {"type": "float"},
      "reviewCount":    {"type": "integer"},
      "orderCount":     {"type": "integer"},
      "indexedAt":      {"type": "date"}
    }
  }
}`
