package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bazarly/catalog-backend/internal/models"
)

func TestResolvePriceSimpleProduct(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("promotional price while promotion active", func(t *testing.T) {
		p := models.Product{
			Prices:      models.Prices{OriginalPrice: 100, Price: 80},
			Promotional: 1,
			DateToPromo: &future,
		}
		assert.Equal(t, 80.0, ResolvePrice(p, now))
	})

	t.Run("original price after promotion expired", func(t *testing.T) {
		p := models.Product{
			Prices:      models.Prices{OriginalPrice: 100, Price: 80},
			Promotional: 1,
			DateToPromo: &past,
		}
		assert.Equal(t, 100.0, ResolvePrice(p, now))
	})

	t.Run("original price when not promotional", func(t *testing.T) {
		p := models.Product{Prices: models.Prices{OriginalPrice: 100, Price: 80}}
		assert.Equal(t, 100.0, ResolvePrice(p, now))
	})

	t.Run("zero when nothing is priced", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolvePrice(models.Product{}, now))
	})
}

func TestResolvePriceCombinationProduct(t *testing.T) {
	now := time.Now()

	t.Run("first variant price wins", func(t *testing.T) {
		p := models.Product{
			IsCombination: true,
			Variants: []models.VariantFragment{
				{"price": 55.0, "originalPrice": 70.0},
				// A cheaper later variant is intentionally ignored.
				{"price": 30.0, "originalPrice": 40.0},
			},
		}
		assert.Equal(t, 55.0, ResolvePrice(p, now))
	})

	t.Run("falls back to first variant original price", func(t *testing.T) {
		p := models.Product{
			IsCombination: true,
			Variants: []models.VariantFragment{
				{"price": 0.0, "originalPrice": 70.0},
			},
		}
		assert.Equal(t, 70.0, ResolvePrice(p, now))
	})

	t.Run("handles integer-decoded numerics", func(t *testing.T) {
		p := models.Product{
			IsCombination: true,
			Variants: []models.VariantFragment{
				{"price": int32(45), "originalPrice": int64(60)},
			},
		}
		assert.Equal(t, 45.0, ResolvePrice(p, now))
	})

	t.Run("combination without variants resolves to zero", func(t *testing.T) {
		p := models.Product{IsCombination: true}
		assert.Equal(t, 0.0, ResolvePrice(p, now))
	})
}
