package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/models"
)

func newTestService(products *fakeProductStore) *Service {
	svc := NewService(products, &fakeCategoryStore{}, &fakeTagStore{}, &fakeAttributeStore{})
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func simpleProduct(price float64) models.Product {
	return models.Product{
		ID:     primitive.NewObjectID(),
		Name:   "p",
		Prices: models.Prices{OriginalPrice: price},
		Status: models.ProductStatusShow,
	}
}

func TestSearchDefaultPagination(t *testing.T) {
	store := &fakeProductStore{}
	for i := 0; i < 30; i++ {
		store.products = append(store.products, simpleProduct(float64(i+1)))
	}
	svc := newTestService(store)

	var fetched int
	for page := 1; ; page++ {
		result, err := svc.Search(context.Background(), SearchFacets{}, OrderNewest, page, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(30), result.TotalCount)
		assert.Equal(t, DefaultPageSize, result.PageSize)
		assert.Equal(t, int64(3), result.Pages)
		if page == 1 {
			assert.Nil(t, result.PreviousPage)
		} else {
			require.NotNil(t, result.PreviousPage)
			assert.Equal(t, page-1, *result.PreviousPage)
		}

		fetched += len(result.Items)
		if result.NextPage == nil {
			break
		}
		assert.Equal(t, page+1, *result.NextPage)
	}
	// Count consistency: the pages add up to the total.
	assert.Equal(t, 30, fetched)
}

func TestSearchFieldSortDelegatesToStore(t *testing.T) {
	store := &fakeProductStore{products: []models.Product{simpleProduct(10)}}
	svc := newTestService(store)

	_, err := svc.Search(context.Background(), SearchFacets{}, OrderTopRated, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "rating", Value: -1}}, store.lastSort)
	assert.Equal(t, int64(10), store.lastSkip)
	assert.Equal(t, int64(5), store.lastLimit)
}

func TestSearchPriceRankedOrdering(t *testing.T) {
	store := &fakeProductStore{products: []models.Product{
		simpleProduct(50),
		simpleProduct(10),
		simpleProduct(30),
		{
			ID:            primitive.NewObjectID(),
			Name:          "combo",
			IsCombination: true,
			Variants: []models.VariantFragment{
				{"price": 20.0, "originalPrice": 25.0},
			},
		},
	}}
	svc := newTestService(store)

	result, err := svc.Search(context.Background(), SearchFacets{}, OrderLowest, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Items, 4)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	prices := make([]float64, 0, len(result.Items))
	for _, item := range result.Items {
		prices = append(prices, ResolvePrice(item, now))
	}
	assert.Equal(t, []float64{10, 20, 30, 50}, prices)

	highest, err := svc.Search(context.Background(), SearchFacets{}, OrderHighest, 1, 10)
	require.NoError(t, err)
	for i := 1; i < len(highest.Items); i++ {
		assert.GreaterOrEqual(t,
			ResolvePrice(highest.Items[i-1], now),
			ResolvePrice(highest.Items[i], now))
	}
}

func TestSearchPriceRankedBoundsApplyPostResolution(t *testing.T) {
	store := &fakeProductStore{products: []models.Product{
		simpleProduct(5),
		simpleProduct(15),
		simpleProduct(25),
	}}
	svc := newTestService(store)

	result, err := svc.Search(context.Background(), SearchFacets{MinPrice: "10", MaxPrice: "20"}, OrderLowest, 1, 10)
	require.NoError(t, err)

	// Bounds never reached the store; they were applied to resolved prices.
	assert.Equal(t, bson.M{}, store.lastFilter)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, 15.0, result.Items[0].Prices.OriginalPrice)
}

func TestSearchPriceRankedStableTieBreak(t *testing.T) {
	a := simpleProduct(20)
	b := simpleProduct(20)
	store := &fakeProductStore{products: []models.Product{a, b}}
	svc := newTestService(store)

	first, err := svc.Search(context.Background(), SearchFacets{}, OrderLowest, 1, 1)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), SearchFacets{}, OrderLowest, 2, 1)
	require.NoError(t, err)

	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.NotEqual(t, first.Items[0].ID, second.Items[0].ID)
	assert.Less(t, first.Items[0].ID.Hex(), second.Items[0].ID.Hex())
}

func TestSearchAttachesGroupedVariants(t *testing.T) {
	axis := "64f1a2b3c4d5e6f708192a3b"
	store := &fakeProductStore{products: []models.Product{
		{
			ID:            primitive.NewObjectID(),
			Name:          "combo",
			IsCombination: true,
			Variants: []models.VariantFragment{
				{axis: "111111111111111111111111", "price": 10.0},
			},
		},
	}}
	svc := newTestService(store)

	result, err := svc.Search(context.Background(), SearchFacets{}, OrderNewest, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Contains(t, result.Items[0].GroupedVariants, axis)
	assert.Len(t, result.Items[0].GroupedVariants[axis], 1)
}

func TestSearchStoreFailurePropagates(t *testing.T) {
	store := &fakeProductStore{err: assert.AnError}
	svc := newTestService(store)

	_, err := svc.Search(context.Background(), SearchFacets{}, OrderNewest, 1, 10)
	assert.Error(t, err)
}

func TestSearchMalformedFacetsDoNotFail(t *testing.T) {
	store := &fakeProductStore{products: []models.Product{simpleProduct(10)}}
	svc := newTestService(store)

	result, err := svc.Search(context.Background(), SearchFacets{
		MinPrice: "not-a-number",
		Featured: "??",
	}, OrderNewest, 1, 10)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}
