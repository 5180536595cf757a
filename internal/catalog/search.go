package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bazarly/catalog-backend/internal/models"
)

type Order string

const (
	OrderNewest      Order = "newest"
	OrderLowest      Order = "lowest"
	OrderHighest     Order = "highest"
	OrderTopRated    Order = "toprated"
	OrderPopular     Order = "popular"
	OrderUpdatedAsc  Order = "updated-asc"
	OrderUpdatedDesc Order = "updated-desc"
)

const DefaultPageSize = 12

// PagedResult is one page of a search plus its pagination meta.
type PagedResult struct {
	Items        []models.Product `json:"items"`
	TotalCount   int64            `json:"totalCount"`
	Page         int              `json:"page"`
	PageSize     int              `json:"pageSize"`
	Pages        int64            `json:"pages"`
	PreviousPage *int             `json:"previousPage"`
	NextPage     *int             `json:"nextPage"`
}

// Service is the catalog search pipeline: facet compilation, optional price
// resolution, ordering, pagination and per-item variant grouping. It holds no
// state between calls.
type Service struct {
	products ProductStore
	compiler *Compiler
	now      func() time.Time
}

func NewService(products ProductStore, categories CategoryStore, tags TagStore, attributes AttributeStore) *Service {
	return &Service{
		products: products,
		compiler: NewCompiler(categories, tags, attributes),
		now:      time.Now,
	}
}

// Search answers "products matching facets, in the requested order, page N of
// size M". The lowest/highest orders are price-ranked: every candidate
// surviving the store filter gets its effective price resolved before bounds,
// sort and pagination. All other orders sort store-side and paginate before
// touching individual items.
func (s *Service) Search(ctx context.Context, facets SearchFacets, order Order, page, pageSize int) (PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	priceRanked := order == OrderLowest || order == OrderHighest
	query, err := s.compiler.Compile(ctx, facets, priceRanked)
	if err != nil {
		return PagedResult{}, err
	}

	var (
		items []models.Product
		total int64
	)
	if priceRanked {
		items, total, err = s.priceRankedPage(ctx, query, order, page, pageSize)
	} else {
		items, total, err = s.fieldSortedPage(ctx, query, order, page, pageSize)
	}
	if err != nil {
		return PagedResult{}, err
	}

	for i := range items {
		items[i].GroupedVariants = GroupVariants(items[i].Variants)
	}

	return paginate(items, total, page, pageSize), nil
}

func (s *Service) fieldSortedPage(ctx context.Context, query *Query, order Order, page, pageSize int) ([]models.Product, int64, error) {
	filter := query.StoreFilter()
	skip := int64((page - 1) * pageSize)

	items, err := s.products.Find(ctx, filter, sortSpec(order), skip, int64(pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("fetch products: %w", err)
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return items, total, nil
}

func (s *Service) priceRankedPage(ctx context.Context, query *Query, order Order, page, pageSize int) ([]models.Product, int64, error) {
	candidates, err := s.products.Find(ctx, query.StoreFilter(), nil, 0, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch candidates: %w", err)
	}

	now := s.now()
	type ranked struct {
		product models.Product
		price   float64
	}
	survivors := make([]ranked, 0, len(candidates))
	for _, p := range candidates {
		price := ResolvePrice(p, now)
		if !query.PostFilter(price) {
			continue
		}
		survivors = append(survivors, ranked{product: p, price: price})
	}

	ascending := order == OrderLowest
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].price != survivors[j].price {
			if ascending {
				return survivors[i].price < survivors[j].price
			}
			return survivors[i].price > survivors[j].price
		}
		// Identifier tie-break keeps pagination stable across requests.
		return survivors[i].product.ID.Hex() < survivors[j].product.ID.Hex()
	})

	total := int64(len(survivors))
	start := (page - 1) * pageSize
	if start > len(survivors) {
		start = len(survivors)
	}
	end := start + pageSize
	if end > len(survivors) {
		end = len(survivors)
	}

	items := make([]models.Product, 0, end-start)
	for _, r := range survivors[start:end] {
		items = append(items, r.product)
	}
	return items, total, nil
}

func sortSpec(order Order) bson.D {
	switch order {
	case OrderTopRated:
		return bson.D{{Key: "rating", Value: -1}}
	case OrderPopular:
		return bson.D{{Key: "sellCount", Value: -1}}
	case OrderUpdatedAsc:
		return bson.D{{Key: "updatedAt", Value: 1}}
	case OrderUpdatedDesc:
		return bson.D{{Key: "updatedAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func paginate(items []models.Product, total int64, page, pageSize int) PagedResult {
	result := PagedResult{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		Pages:      (total + int64(pageSize) - 1) / int64(pageSize),
	}
	if page > 1 {
		prev := page - 1
		result.PreviousPage = &prev
	}
	if int64(page)*int64(pageSize) < total {
		next := page + 1
		result.NextPage = &next
	}
	return result
}
