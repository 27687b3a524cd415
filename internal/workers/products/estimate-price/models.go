// internal/workers/products/estimate-price/models.go
package estimateprice

import (
	"dropship-workers/internal/scoring"

	"github.com/shopspring/decimal"
)

type Input struct {
	SupplierPrice float64        `json:"supplierPrice"`
	Source        scoring.Source `json:"source,omitempty"`
	Price         float64        `json:"price,omitempty"`
}

// Output prices are decimals and encode as JSON strings, e.g. "24.99".
type Output struct {
	Source          scoring.Source  `json:"source"`
	Markup          float64         `json:"markup"`
	SuggestedPrice  decimal.Decimal `json:"suggestedPrice"`
	ListingPrice    decimal.Decimal `json:"listingPrice"`
	PriceOverridden bool            `json:"priceOverridden"`
	EstimatedProfit decimal.Decimal `json:"estimatedProfit"`
	MarginPct       decimal.Decimal `json:"marginPct"`
}
