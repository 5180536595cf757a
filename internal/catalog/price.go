package catalog

import (
	"time"

	"github.com/bazarly/catalog-backend/internal/models"
)

// ResolvePrice computes the single effective price used for price-ranked
// search. Simple products use the promotional price while the promotion is
// active, else the original price. Combination products use the first variant
// in declaration order; cheaper variants further down the list are ignored on
// purpose, matching storefront behavior.
func ResolvePrice(p models.Product, now time.Time) float64 {
	if !p.IsCombination {
		if p.Promotional > 0 && p.DateToPromo != nil && p.DateToPromo.After(now) && p.Prices.Price > 0 {
			return p.Prices.Price
		}
		if p.Prices.OriginalPrice > 0 {
			return p.Prices.OriginalPrice
		}
		return 0
	}

	if len(p.Variants) == 0 {
		return 0
	}
	first := p.Variants[0]
	if v := fragmentNumber(first, "price"); v > 0 {
		return v
	}
	return fragmentNumber(first, "originalPrice")
}

// fragmentNumber reads a numeric field out of a raw variant fragment. BSON
// decoding may yield int32/int64/float64 depending on how the document was
// written, so all of them are accepted.
func fragmentNumber(f models.VariantFragment, key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
