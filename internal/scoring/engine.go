// internal/scoring/engine.go
package scoring

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	ReasonWinner        = "WINNER: Strong candidate for dropshipping"
	ReasonModerate      = "MODERATE: Decent potential, test with small budget"
	ReasonLowReviews    = "Low review count - limited social proof"
	ReasonBelowAvgRate  = "Below-average rating"
	ReasonHighCost      = "High supplier cost reduces margin"
	WarningLowRating    = "Low rating despite reviews - check product quality"
	WarningHighSupplier = "High supplier price - thin margins likely"
	WarningFewImages    = "Limited product images"
	WarningUnproven     = "Unproven product - few reviews and orders"
)

// highCostReasonThreshold is the supplier price above which the cost reason
// is added. It is separate from the warning threshold of 50.
const highCostReasonThreshold = 40

// Engine scores product signals against a fixed configuration. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	config *Config
}

// NewEngine returns an engine bound to config. A nil config uses DefaultConfig.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Config returns the configuration the engine scores with.
func (e *Engine) Config() *Config {
	return e.config
}

// Analyze scores a single signal. Malformed numeric fields are treated as
// absent; Analyze has no error path.
func (e *Engine) Analyze(signal ProductSignal) *ProductAnalysis {
	s := Sanitize(signal)
	cfg := e.config
	scores := CalculateSubScores(s)

	raw := float64(scores.ReviewScore)*cfg.Weights.Reviews +
		float64(scores.RatingScore)*cfg.Weights.Rating +
		float64(scores.OrderScore)*cfg.Weights.Orders +
		float64(scores.ProfitScore)*cfg.Weights.Profit

	analysis := &ProductAnalysis{
		TotalScore:    roundScore(raw),
		TotalScoreRaw: raw,
		Breakdown:     scores,
		IsWinner:      raw >= cfg.WinnerThreshold,
		Potential:     cfg.potentialFor(raw),
		Reasons:       e.reasons(s, scores, raw),
		Warnings:      warnings(s, scores),
	}

	if s.SupplierPrice > 0 {
		analysis.SuggestedPrice = cfg.EstimatePrice(s.SupplierPrice, s.Source)
	} else {
		analysis.SuggestedPrice = decimal.Zero
	}

	return analysis
}

// AnalyzeBatch scores each signal independently and returns results in
// input order.
func (e *Engine) AnalyzeBatch(signals []ProductSignal) []*ProductAnalysis {
	out := make([]*ProductAnalysis, len(signals))
	for i, s := range signals {
		out[i] = e.Analyze(s)
	}
	return out
}

// Analyze scores signal with config. A nil config uses DefaultConfig.
func Analyze(signal ProductSignal, config *Config) *ProductAnalysis {
	return NewEngine(config).Analyze(signal)
}

func (c *Config) potentialFor(raw float64) Potential {
	switch {
	case raw >= c.Bands.High:
		return PotentialHigh
	case raw >= c.Bands.Medium:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// Verdict returns the leading reason for a raw total, or "" below the medium band.
func (c *Config) Verdict(raw float64) string {
	switch c.potentialFor(raw) {
	case PotentialHigh:
		return ReasonWinner
	case PotentialMedium:
		return ReasonModerate
	default:
		return ""
	}
}

func (e *Engine) reasons(s ProductSignal, scores SubScores, raw float64) []string {
	reasons := make([]string, 0, 8)

	if v := e.config.Verdict(raw); v != "" {
		reasons = append(reasons, v)
	}

	if scores.ReviewScore >= 70 {
		reasons = append(reasons, fmt.Sprintf("High social proof: %s reviews", CompactCount(s.ReviewCount)))
	}
	if scores.RatingScore >= 70 {
		reasons = append(reasons, fmt.Sprintf("Excellent rating: %s/5", formatRating(s.Rating)))
	}
	if scores.OrderScore >= 70 {
		reasons = append(reasons, fmt.Sprintf("Proven demand: %s orders", CompactCount(s.OrderCount)))
	}
	if scores.ProfitScore >= 70 {
		est := e.config.EstimateProfit(s.SupplierPrice, s.Source)
		reasons = append(reasons, fmt.Sprintf("Strong profit potential: ~$%s profit (%s%% margin)",
			est.Profit.String(), est.MarginPct.String()))
	}

	if scores.ReviewScore < 30 {
		reasons = append(reasons, ReasonLowReviews)
	}
	if scores.RatingScore < 50 {
		reasons = append(reasons, ReasonBelowAvgRate)
	}
	if s.SupplierPrice > highCostReasonThreshold {
		reasons = append(reasons, ReasonHighCost)
	}

	return reasons
}

func warnings(s ProductSignal, scores SubScores) []string {
	out := make([]string, 0, 4)

	if s.ReviewCount > 0 && s.Rating < 4.0 {
		out = append(out, WarningLowRating)
	}
	if s.SupplierPrice > 50 {
		out = append(out, WarningHighSupplier)
	}
	if s.ImageCount < 3 {
		out = append(out, WarningFewImages)
	}
	if scores.ReviewScore < 30 && scores.OrderScore < 30 {
		out = append(out, WarningUnproven)
	}

	return out
}

// roundScore rounds halves up, matching how listing pages display scores.
func roundScore(raw float64) int {
	return int(math.Floor(raw + 0.5))
}
