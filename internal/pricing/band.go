package pricing

import "github.com/diagnosis/hotel-frontdesk/internal/domain"

type PriceBand string

const (
	BandLow    PriceBand = "low"
	BandMedium PriceBand = "medium"
	BandHigh   PriceBand = "high"
)

const (
	lowCeiling    int64 = 500_000
	mediumCeiling int64 = 1_000_000
)

// PriceBandOf buckets a nightly price. Both ceilings are inclusive.
func PriceBandOf(price int64) PriceBand {
	switch {
	case price <= lowCeiling:
		return BandLow
	case price <= mediumCeiling:
		return BandMedium
	default:
		return BandHigh
	}
}

// ParsePriceBand accepts the band names used in query strings. An empty
// string parses to the empty band, meaning no filter.
func ParsePriceBand(s string) (PriceBand, error) {
	switch PriceBand(s) {
	case "", BandLow, BandMedium, BandHigh:
		return PriceBand(s), nil
	default:
		return "", domain.Invalid("band", domain.ErrInvalidPriceBand)
	}
}
