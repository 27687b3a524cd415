// internal/scoring/criteria.go
package scoring

// MeetsMinimumCriteria is the cheap gate used before full scoring in bulk
// scans. It does not look at the weighted score.
func (c *Config) MeetsMinimumCriteria(signal ProductSignal) bool {
	s := Sanitize(signal)
	return s.ReviewCount >= c.Criteria.MinReviews &&
		s.Rating >= c.Criteria.MinRating &&
		s.SupplierPrice <= c.Criteria.MaxSupplierPrice
}

// MeetsMinimumCriteria checks signal against the default criteria.
func MeetsMinimumCriteria(signal ProductSignal) bool {
	return DefaultConfig().MeetsMinimumCriteria(signal)
}
