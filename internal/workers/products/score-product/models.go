// internal/workers/products/score-product/models.go
package scoreproduct

import (
	"dropship-workers/internal/scoring"
	"dropship-workers/internal/signal"
)

// Input carries either a typed signal or a raw scraped listing. When both
// are present the typed signal wins.
type Input struct {
	ProductID string                 `json:"productId,omitempty"`
	Signal    *scoring.ProductSignal `json:"signal,omitempty"`
	Listing   *signal.RawListing     `json:"listing,omitempty"`
	SkipCache bool                   `json:"skipCache,omitempty"`
}

// Output keeps the viral* names the product import flow reads.
type Output struct {
	ProductID      string                   `json:"productId,omitempty"`
	AnalysisID     string                   `json:"analysisId"`
	Signal         scoring.ProductSignal    `json:"signal"`
	Analysis       *scoring.ProductAnalysis `json:"analysis"`
	MeetsCriteria  bool                     `json:"meetsCriteria"`
	Cached         bool                     `json:"cached"`
	ViralScore     int                      `json:"viralScore"`
	ViralPotential scoring.Potential        `json:"viralPotential"`
	ViralReasons   []string                 `json:"viralReasons"`
	IsWinner       bool                     `json:"isWinner"`
}
