package catalog

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/models"
)

// In-memory stand-ins for the Mongo repositories. Find applies only the
// filter shapes the engine actually produces.

type fakeProductStore struct {
	products []models.Product
	counts   map[primitive.ObjectID]int64
	err      error

	lastFilter bson.M
	lastSort   bson.D
	lastSkip   int64
	lastLimit  int64
}

func (f *fakeProductStore) Find(_ context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = filter
	f.lastSort = sort
	f.lastSkip = skip
	f.lastLimit = limit

	items := f.products
	if skip > 0 {
		if skip > int64(len(items)) {
			skip = int64(len(items))
		}
		items = items[skip:]
	}
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	out := make([]models.Product, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeProductStore) Count(_ context.Context, filter bson.M) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	// Ancestor resolution counts products referencing one category id.
	if id, ok := filter["categories"].(primitive.ObjectID); ok {
		var n int64
		for _, p := range f.products {
			for _, ref := range p.Categories {
				if ref == id {
					n++
					break
				}
			}
		}
		return n, nil
	}
	return int64(len(f.products)), nil
}

func (f *fakeProductStore) CountByCategory(_ context.Context) (map[primitive.ObjectID]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.counts != nil {
		return f.counts, nil
	}
	counts := make(map[primitive.ObjectID]int64)
	for _, p := range f.products {
		for _, ref := range p.Categories {
			counts[ref]++
		}
	}
	return counts, nil
}

type fakeCategoryStore struct {
	categories []models.Category
	err        error
}

func (f *fakeCategoryStore) Find(_ context.Context, filter bson.M) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Matches the two shapes the engine issues: everything, an _id $in
	// subset, or a localized-name regex from the facet compiler.
	if idFilter, ok := filter["_id"].(bson.M); ok {
		in := idFilter["$in"].([]primitive.ObjectID)
		wanted := make(map[primitive.ObjectID]bool, len(in))
		for _, id := range in {
			wanted[id] = true
		}
		var out []models.Category
		for _, cat := range f.categories {
			if wanted[cat.ID] {
				out = append(out, cat)
			}
		}
		return out, nil
	}
	for key, val := range filter {
		if !strings.HasPrefix(key, "name.") {
			continue
		}
		locale := strings.TrimPrefix(key, "name.")
		term := strings.ToLower(val.(bson.M)["$regex"].(string))
		var out []models.Category
		for _, cat := range f.categories {
			if strings.Contains(strings.ToLower(cat.Name[locale]), term) {
				out = append(out, cat)
			}
		}
		return out, nil
	}
	out := make([]models.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, cat := range f.categories {
		if cat.ID == id {
			found := cat
			return &found, nil
		}
	}
	return nil, nil
}

type fakeTagStore struct {
	tags []models.Tag
	err  error
}

func (f *fakeTagStore) Find(_ context.Context, filter bson.M) ([]models.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	if slug, ok := filter["slug"].(string); ok {
		var out []models.Tag
		for _, tag := range f.tags {
			if tag.Slug == slug {
				out = append(out, tag)
			}
		}
		return out, nil
	}
	for key, val := range filter {
		if !strings.HasPrefix(key, "name.") {
			continue
		}
		locale := strings.TrimPrefix(key, "name.")
		term := strings.ToLower(val.(bson.M)["$regex"].(string))
		var out []models.Tag
		for _, tag := range f.tags {
			if strings.Contains(strings.ToLower(tag.Name[locale]), term) {
				out = append(out, tag)
			}
		}
		return out, nil
	}
	return f.tags, nil
}

type fakeAttributeStore struct {
	attributes []models.Attribute
	err        error
}

func (f *fakeAttributeStore) Find(_ context.Context, filter bson.M) ([]models.Attribute, error) {
	if f.err != nil {
		return nil, f.err
	}
	if visible, ok := filter["isVisible"].(bool); ok {
		var out []models.Attribute
		for _, attr := range f.attributes {
			if attr.IsVisible == visible {
				out = append(out, attr)
			}
		}
		return out, nil
	}
	return f.attributes, nil
}
