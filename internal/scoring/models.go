// internal/scoring/models.go
package scoring

import "github.com/shopspring/decimal"

// Source is the marketplace a listing was observed on.
type Source string

const (
	SourceAliExpress Source = "aliexpress"
	SourceAmazon     Source = "amazon"
	SourceTemu       Source = "temu"
	SourceManual     Source = "manual"
)

// Known reports whether s is one of the supported marketplaces.
func (s Source) Known() bool {
	switch s {
	case SourceAliExpress, SourceAmazon, SourceTemu, SourceManual:
		return true
	}
	return false
}

// Label is s for known marketplaces and "other" otherwise.
func (s Source) Label() string {
	if s.Known() {
		return string(s)
	}
	return "other"
}

// Potential is the tier derived from the raw total.
type Potential string

const (
	PotentialHigh   Potential = "high"
	PotentialMedium Potential = "medium"
	PotentialLow    Potential = "low"
)

// ProductSignal is the scraped or caller-supplied input. Zero in any numeric
// field means the value was not observed.
type ProductSignal struct {
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	SupplierPrice float64 `json:"supplierPrice"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`
	OrderCount    int     `json:"orderCount"`
	ImageCount    int     `json:"imageCount"`
	Source        Source  `json:"source"`
}

// SubScores holds the four factor scores, each 0-100.
type SubScores struct {
	ReviewScore int `json:"reviewScore"`
	RatingScore int `json:"ratingScore"`
	OrderScore  int `json:"orderScore"`
	ProfitScore int `json:"profitScore"`
}

// ProductAnalysis is the engine output. It is never modified after Analyze
// returns it.
type ProductAnalysis struct {
	TotalScore     int             `json:"totalScore"`
	TotalScoreRaw  float64         `json:"totalScoreRaw"`
	Breakdown      SubScores       `json:"breakdown"`
	IsWinner       bool            `json:"isWinner"`
	Potential      Potential       `json:"potential"`
	Reasons        []string        `json:"reasons"`
	Warnings       []string        `json:"warnings"`
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
}
