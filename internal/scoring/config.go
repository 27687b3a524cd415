// internal/scoring/config.go
package scoring

import (
	"fmt"
	"math"
)

// Weights sets how much each sub-score contributes to the total. They are
// applied as-is: a set that does not sum to 1.0 produces totals outside 0-100.
type Weights struct {
	Reviews float64 `json:"reviews" mapstructure:"reviews"`
	Rating  float64 `json:"rating" mapstructure:"rating"`
	Orders  float64 `json:"orders" mapstructure:"orders"`
	Profit  float64 `json:"profit" mapstructure:"profit"`
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.Reviews + w.Rating + w.Orders + w.Profit
}

// PotentialBands are the lower bounds (inclusive) of the high and medium tiers.
type PotentialBands struct {
	High   float64 `json:"high" mapstructure:"high"`
	Medium float64 `json:"medium" mapstructure:"medium"`
}

// Criteria is the cheap pre-filter applied before full scoring in bulk scans.
type Criteria struct {
	MinReviews       int     `json:"minReviews" mapstructure:"min_reviews"`
	MinRating        float64 `json:"minRating" mapstructure:"min_rating"`
	MaxSupplierPrice float64 `json:"maxSupplierPrice" mapstructure:"max_supplier_price"`
}

// Config is the injectable scoring configuration. It is read-only once built;
// the engine never mutates it.
type Config struct {
	Weights           Weights            `json:"weights"`
	WinnerThreshold   float64            `json:"winnerThreshold"`
	Bands             PotentialBands     `json:"potentialBands"`
	MarkupMultipliers map[Source]float64 `json:"markupMultipliers"`
	DefaultMarkup     float64            `json:"defaultMarkup"`
	Criteria          Criteria           `json:"criteria"`
}

// DefaultConfig returns a fresh copy of the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Reviews: 0.30,
			Rating:  0.20,
			Orders:  0.25,
			Profit:  0.25,
		},
		WinnerThreshold: 70,
		Bands: PotentialBands{
			High:   75,
			Medium: 50,
		},
		MarkupMultipliers: map[Source]float64{
			SourceAliExpress: 2.5,
			SourceAmazon:     1.8,
			SourceTemu:       3.0,
		},
		DefaultMarkup: 2.5,
		Criteria: Criteria{
			MinReviews:       100,
			MinRating:        4.0,
			MaxSupplierPrice: 50,
		},
	}
}

// Markup returns the multiplier for source, or DefaultMarkup when the source
// has no entry.
func (c *Config) Markup(source Source) float64 {
	if m, ok := c.MarkupMultipliers[source]; ok {
		return m
	}
	return c.DefaultMarkup
}

// Validate reports configuration that is almost certainly a mistake. It is
// meant for config loaders; the engine itself never calls it and never
// adjusts weights.
func (c *Config) Validate() error {
	weights := map[string]float64{
		"reviews": c.Weights.Reviews,
		"rating":  c.Weights.Rating,
		"orders":  c.Weights.Orders,
		"profit":  c.Weights.Profit,
	}
	for _, name := range []string{"reviews", "rating", "orders", "profit"} {
		w := weights[name]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %s is not a finite number", name)
		}
		if w < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, w)
		}
	}

	if c.Bands.Medium > c.Bands.High {
		return fmt.Errorf("medium band (%v) is above high band (%v)", c.Bands.Medium, c.Bands.High)
	}

	if c.DefaultMarkup <= 0 {
		return fmt.Errorf("default markup must be positive, got %v", c.DefaultMarkup)
	}
	for source, m := range c.MarkupMultipliers {
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("markup for %s must be a positive number, got %v", source, m)
		}
	}

	return nil
}

// WeightsNormalized reports whether the weights sum to 1 within tolerance.
// Callers can use it to warn; scores are computed from the raw weights either way.
func (c *Config) WeightsNormalized(tolerance float64) bool {
	return math.Abs(c.Weights.Sum()-1) <= tolerance
}
