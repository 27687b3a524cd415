// internal/signal/parse.go
package signal

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"dropship-workers/internal/scoring"

	"github.com/shopspring/decimal"
)

// RawListing is a listing as scraped from a marketplace page, before any
// numeric parsing.
type RawListing struct {
	Title         string   `json:"title"`
	URL           string   `json:"url,omitempty"`
	Price         string   `json:"price,omitempty"`
	SupplierPrice string   `json:"supplierPrice,omitempty"`
	Rating        string   `json:"rating,omitempty"`
	Reviews       string   `json:"reviews,omitempty"`
	Orders        string   `json:"orders,omitempty"`
	Images        []string `json:"images,omitempty"`
	Source        string   `json:"source,omitempty"`
}

var (
	countPattern  = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kKmM]\b)?`)
	numberPattern = regexp.MustCompile(`\d[\d.,]*`)

	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	maxStars = decimal.NewFromInt(5)
	maxCount = decimal.NewFromInt(math.MaxInt)
)

// ParseCount reads counts such as "1,234 reviews", "10K+ sold" or "1.2M".
// Text without a number yields 0. Counts beyond the int range saturate.
func ParseCount(text string) int {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	n, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}

	switch strings.ToLower(m[2]) {
	case "k":
		n = n.Mul(thousand)
	case "m":
		n = n.Mul(million)
	}

	if n.GreaterThan(maxCount) {
		return math.MaxInt
	}
	return int(n.IntPart())
}

// ParsePrice reads the first amount in text, e.g. "$12.99", "US $1,299.00"
// or "12,99 €". Ranges such as "$3.50 - $5.00" yield the lower bound.
func ParsePrice(text string) float64 {
	d, ok := parseAmount(text)
	if !ok || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// ParseRating reads a star rating such as "4.8" or "4.8 out of 5 stars".
// Values outside 0-5 are treated as unobserved.
func ParseRating(text string) float64 {
	d, ok := parseAmount(text)
	if !ok || d.IsNegative() || d.GreaterThan(maxStars) {
		return 0
	}
	return d.InexactFloat64()
}

func parseAmount(text string) (decimal.Decimal, bool) {
	raw := numberPattern.FindString(text)
	if raw == "" {
		return decimal.Zero, false
	}
	raw = strings.TrimRight(raw, ".,")

	// A lone comma followed by one or two digits is a decimal comma.
	if !strings.Contains(raw, ".") && strings.Count(raw, ",") == 1 {
		if i := strings.Index(raw, ","); len(raw)-i-1 <= 2 {
			raw = raw[:i] + "." + raw[i+1:]
		}
	}
	raw = strings.ReplaceAll(raw, ",", "")

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseSource maps a marketplace name or listing URL onto a Source.
// Anything unrecognised is treated as a manual entry.
func ParseSource(text string) scoring.Source {
	s := strings.ToLower(strings.TrimSpace(text))
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Host
	}

	switch {
	case strings.Contains(s, "aliexpress"):
		return scoring.SourceAliExpress
	case strings.Contains(s, "amazon"):
		return scoring.SourceAmazon
	case strings.Contains(s, "temu"):
		return scoring.SourceTemu
	default:
		return scoring.SourceManual
	}
}

// FromRaw converts a scraped listing into a typed signal. The source comes
// from the Source field when set, otherwise from the listing URL. When no
// supplier price was scraped the listed price is used as the cost basis.
func FromRaw(raw RawListing) scoring.ProductSignal {
	source := ParseSource(raw.Source)
	if strings.TrimSpace(raw.Source) == "" {
		source = ParseSource(raw.URL)
	}

	price := ParsePrice(raw.Price)
	supplier := ParsePrice(raw.SupplierPrice)
	if supplier == 0 {
		supplier = price
	}

	return scoring.ProductSignal{
		Title:         strings.TrimSpace(raw.Title),
		Price:         price,
		SupplierPrice: supplier,
		Rating:        ParseRating(raw.Rating),
		ReviewCount:   ParseCount(raw.Reviews),
		OrderCount:    ParseCount(raw.Orders),
		ImageCount:    countImages(raw.Images),
		Source:        source,
	}
}

func countImages(images []string) int {
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		seen[img] = struct{}{}
	}
	return len(seen)
}
