// internal/scoring/subscores.go
package scoring

import "math"

// ReviewScore maps a review count onto the social-proof ladder.
func ReviewScore(reviewCount int) int {
	n := sanitizeCount(reviewCount)
	switch {
	case n < 100:
		return 10
	case n < 500:
		return 30
	case n < 1000:
		return 50
	case n < 5000:
		return 70
	case n < 10000:
		return 85
	default:
		return 100
	}
}

// RatingScore maps a 0-5 star rating onto the quality ladder. A zero rating
// means no rating was observed and scores the same as a poor one.
func RatingScore(rating float64) int {
	r := sanitizeFloat(rating)
	switch {
	case r == 0 || r < 3.5:
		return 0
	case r < 4.0:
		return 30
	case r < 4.3:
		return 50
	case r < 4.5:
		return 70
	case r < 4.7:
		return 85
	default:
		return 100
	}
}

// OrderScore maps an order count onto the demand ladder.
func OrderScore(orderCount int) int {
	n := sanitizeCount(orderCount)
	switch {
	case n < 500:
		return 10
	case n < 1000:
		return 30
	case n < 5000:
		return 50
	case n < 10000:
		return 70
	case n < 50000:
		return 85
	default:
		return 100
	}
}

// ProfitScore maps supplier cost onto the margin ladder. Cheaper goods score
// higher. An unknown (zero) cost is assumed to be middling and scores 50.
// The comparisons run from the top down and use strict >, so a cost of
// exactly 50, 30, 20 or 10 lands in the next cheaper band.
func ProfitScore(supplierPrice float64) int {
	p := sanitizeFloat(supplierPrice)
	if p == 0 {
		return 50
	}
	switch {
	case p > 50:
		return 20
	case p > 30:
		return 40
	case p > 20:
		return 60
	case p > 10:
		return 80
	default:
		return 100
	}
}

// CalculateSubScores runs all four ladders against a signal.
func CalculateSubScores(signal ProductSignal) SubScores {
	return SubScores{
		ReviewScore: ReviewScore(signal.ReviewCount),
		RatingScore: RatingScore(signal.Rating),
		OrderScore:  OrderScore(signal.OrderCount),
		ProfitScore: ProfitScore(signal.SupplierPrice),
	}
}

// sanitizeFloat folds NaN, infinities and negatives into the "no signal" value.
func sanitizeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sanitizeCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Sanitize returns a copy of signal with every numeric field coerced into
// its valid domain.
func Sanitize(signal ProductSignal) ProductSignal {
	signal.Price = sanitizeFloat(signal.Price)
	signal.SupplierPrice = sanitizeFloat(signal.SupplierPrice)
	signal.Rating = sanitizeFloat(signal.Rating)
	signal.ReviewCount = sanitizeCount(signal.ReviewCount)
	signal.OrderCount = sanitizeCount(signal.OrderCount)
	signal.ImageCount = sanitizeCount(signal.ImageCount)
	return signal
}
