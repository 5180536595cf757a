package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bazarly/catalog-backend/internal/models"
)

// ErrInsufficientStock reports a stock decrement the guard refused: either the
// product does not exist or it has fewer units than requested. Retrying the
// same decrement cannot succeed.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	CountByCategory(ctx context.Context) (map[primitive.ObjectID]int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, input models.UpdateProductInput) (bool, error)
	PatchProduct(ctx context.Context, id primitive.ObjectID, patch bson.M) (bool, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	DeleteProducts(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

type MongoProductRepository struct {
	DB *mongo.Database
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &MongoProductRepository{DB: db}
}

func (r *MongoProductRepository) Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Product, error) {
	collection := r.DB.Collection("products")
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.DB.Collection("products").CountDocuments(ctx, filter)
}

// CountByCategory unwinds product category references and counts products per
// referenced category id.
func (r *MongoProductRepository) CountByCategory(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	collection := r.DB.Collection("products")
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$categories",
			"total": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Total int64              `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := make(map[primitive.ObjectID]int64, len(results))
	for _, res := range results {
		counts[res.ID] = res.Total
	}
	return counts, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	if err := r.DB.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	res, err := r.DB.Collection("products").InsertOne(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

// UpdateProduct applies a partial update. Locale maps are merged per key so an
// update carrying only {"ru": ...} leaves the stored "en" text intact.
func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, input models.UpdateProductInput) (bool, error) {
	input.UpdatedAt = time.Now()

	set, err := toBSONMap(input)
	if err != nil {
		return false, fmt.Errorf("encode update: %w", err)
	}
	mergeLocales(set, "title", input.Title)
	mergeLocales(set, "description", input.Description)
	mergeLocales(set, "shortDescription", input.ShortDescription)

	result, err := r.DB.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// PatchProduct applies a caller-supplied patch document atomically.
func (r *MongoProductRepository) PatchProduct(ctx context.Context, id primitive.ObjectID, patch bson.M) (bool, error) {
	patch["updatedAt"] = time.Now()
	result, err := r.DB.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoProductRepository) DeleteProducts(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := r.DB.Collection("products").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DecrementStock atomically reduces stock with an availability guard and bumps
// the sales counter.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	filter := bson.M{
		"_id":   id,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity, "sellCount": quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	res, err := r.DB.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), ErrInsufficientStock)
	}
	return nil
}

// toBSONMap round-trips a struct through bson so omitempty-tagged zero fields
// drop out of the $set document.
func toBSONMap(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func mergeLocales(set bson.M, field string, locales map[string]string) {
	for locale, text := range locales {
		set[field+"."+locale] = text
	}
}
