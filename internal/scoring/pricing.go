// internal/scoring/pricing.go
package scoring

import "github.com/shopspring/decimal"

// FlatFee is the per-order shipping and handling estimate subtracted when
// working out profit.
var FlatFee = decimal.NewFromInt(9)

var (
	twenty   = decimal.NewFromInt(20)
	fifty    = decimal.NewFromInt(50)
	five     = decimal.NewFromInt(5)
	ten      = decimal.NewFromInt(10)
	hundred  = decimal.NewFromInt(100)
	half     = decimal.NewFromFloat(0.5)
	charm99  = decimal.RequireFromString("0.99")
	charm499 = decimal.RequireFromString("4.99")
	charm999 = decimal.RequireFromString("9.99")
)

// EstimatePrice applies the source markup to supplierPrice and rounds the
// result to a charm price:
//
//	base < 20  -> floor(base) + 0.99
//	base < 50  -> floor(base/5)*5 + 4.99
//	otherwise  -> floor(base/10)*10 + 9.99
//
// Unknown sources use the default markup.
func (c *Config) EstimatePrice(supplierPrice float64, source Source) decimal.Decimal {
	cost := decimal.NewFromFloat(sanitizeFloat(supplierPrice))
	base := cost.Mul(decimal.NewFromFloat(c.Markup(source)))
	return CharmPrice(base)
}

// EstimatePrice prices against the default configuration.
func EstimatePrice(supplierPrice float64, source Source) decimal.Decimal {
	return DefaultConfig().EstimatePrice(supplierPrice, source)
}

// CharmPrice rounds base using the three-tier psychological pricing ladder.
func CharmPrice(base decimal.Decimal) decimal.Decimal {
	switch {
	case base.LessThan(twenty):
		return base.Floor().Add(charm99)
	case base.LessThan(fifty):
		return base.Div(five).Floor().Mul(five).Add(charm499)
	default:
		return base.Div(ten).Floor().Mul(ten).Add(charm999)
	}
}

// ProfitEstimate is the expected per-unit profit at the suggested price.
type ProfitEstimate struct {
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"marginPct"`
}

// EstimateProfit prices the product and subtracts the supplier cost and FlatFee.
// Profit and margin are rounded to whole numbers, halves rounding up.
func (c *Config) EstimateProfit(supplierPrice float64, source Source) ProfitEstimate {
	selling := c.EstimatePrice(supplierPrice, source)
	cost := decimal.NewFromFloat(sanitizeFloat(supplierPrice))
	profit := selling.Sub(cost).Sub(FlatFee)

	margin := decimal.Zero
	if selling.IsPositive() {
		margin = profit.Div(selling).Mul(hundred)
	}

	return ProfitEstimate{
		SellingPrice: selling,
		Profit:       roundHalfUp(profit),
		MarginPct:    roundHalfUp(margin),
	}
}

func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
