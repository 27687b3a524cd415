// internal/models/product.go
package models

import (
	"time"

	"dropship-workers/internal/scoring"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	URL           string          `json:"url,omitempty"`
	Source        scoring.Source  `json:"source"`
	SupplierPrice decimal.Decimal `json:"supplierPrice"`
	Price         decimal.Decimal `json:"price"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	OrderCount    int             `json:"orderCount"`
	ImageCount    int             `json:"imageCount"`
}

// ProductAnalysisRecord is the viral_* column set stored on a products row.
type ProductAnalysisRecord struct {
	ProductID      string            `json:"productId"`
	ViralScore     int               `json:"viralScore"`
	ViralPotential scoring.Potential `json:"viralPotential"`
	ViralReasons   []string          `json:"viralReasons"`
	ViralWarnings  []string          `json:"viralWarnings"`
	IsWinner       bool              `json:"isWinner"`
	SuggestedPrice decimal.Decimal   `json:"suggestedPrice"`
	AnalyzedAt     time.Time         `json:"analyzedAt"`
}

func NewAnalysisRecord(productID string, a *scoring.ProductAnalysis, analyzedAt time.Time) ProductAnalysisRecord {
	return ProductAnalysisRecord{
		ProductID:      productID,
		ViralScore:     a.TotalScore,
		ViralPotential: a.Potential,
		ViralReasons:   nonNil(a.Reasons),
		ViralWarnings:  nonNil(a.Warnings),
		IsWinner:       a.IsWinner,
		SuggestedPrice: a.SuggestedPrice,
		AnalyzedAt:     analyzedAt.UTC(),
	}
}

// TrendingProduct is the search document for the trending products index.
type TrendingProduct struct {
	ProductID      string            `json:"productId"`
	Title          string            `json:"title"`
	URL            string            `json:"url,omitempty"`
	Source         scoring.Source    `json:"source"`
	ViralScore     int               `json:"viralScore"`
	ViralPotential scoring.Potential `json:"viralPotential"`
	IsWinner       bool              `json:"isWinner"`
	Breakdown      scoring.SubScores `json:"breakdown"`
	Reasons        []string          `json:"reasons"`
	SuggestedPrice decimal.Decimal   `json:"suggestedPrice"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	OrderCount     int               `json:"orderCount"`
	IndexedAt      time.Time         `json:"indexedAt"`
}

// WinnerAlert is the payload published when a product crosses the winner threshold.
type WinnerAlert struct {
	AlertID        string            `json:"alertId"`
	ProductID      string            `json:"productId"`
	Title          string            `json:"title,omitempty"`
	URL            string            `json:"url,omitempty"`
	Score          int               `json:"score"`
	Potential      scoring.Potential `json:"potential"`
	SuggestedPrice decimal.Decimal   `json:"suggestedPrice"`
	Reasons        []string          `json:"reasons"`
	Warnings       []string          `json:"warnings"`
	DetectedAt     time.Time         `json:"detectedAt"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
