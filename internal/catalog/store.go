package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/models"
)

// The engine talks to the document store through these narrow interfaces so
// tests can substitute in-memory fakes for the Mongo repositories.

type ProductStore interface {
	Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// CountByCategory groups products by category reference and returns a
	// live count per category id.
	CountByCategory(ctx context.Context) (map[primitive.ObjectID]int64, error)
}

type CategoryStore interface {
	Find(ctx context.Context, filter bson.M) ([]models.Category, error)
	// FindByID returns (nil, nil) when the id does not resolve.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
}

type TagStore interface {
	Find(ctx context.Context, filter bson.M) ([]models.Tag, error)
}

type AttributeStore interface {
	Find(ctx context.Context, filter bson.M) ([]models.Attribute, error)
}
