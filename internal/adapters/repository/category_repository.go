package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/models"
)

type CategoryRepository interface {
	Find(ctx context.Context, filter bson.M) ([]models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.UpdateCategoryInput) (bool, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type MongoCategoryRepository struct {
	DB *mongo.Database
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &MongoCategoryRepository{DB: db}
}

func (r *MongoCategoryRepository) Find(ctx context.Context, filter bson.M) ([]models.Category, error) {
	cursor, err := r.DB.Collection("categories").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.DB.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if category.Products == nil {
		category.Products = []primitive.ObjectID{}
	}

	res, err := r.DB.Collection("categories").InsertOne(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return category, nil
}

func (r *MongoCategoryRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.UpdateCategoryInput) (bool, error) {
	input.UpdatedAt = time.Now()

	set, err := toBSONMap(input)
	if err != nil {
		return false, fmt.Errorf("encode update: %w", err)
	}
	mergeLocales(set, "name", input.Name)
	mergeLocales(set, "parentName", input.ParentName)

	result, err := r.DB.Collection("categories").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// DeleteCategory removes a category together with its direct children. The
// cascade is a single level: grandchildren keep their (now dangling) parent
// pointers and surface as orphaned roots in tree assembly.
func (r *MongoCategoryRepository) DeleteCategory(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.DB.Collection("categories").DeleteMany(ctx, cascadeDeleteFilter(id))
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, mongo.ErrNoDocuments
	}
	return res.DeletedCount, nil
}

// cascadeDeleteFilter matches a category and its direct children, nothing
// deeper.
func cascadeDeleteFilter(id primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"_id": id},
		{"parentId": id},
	}}
}
