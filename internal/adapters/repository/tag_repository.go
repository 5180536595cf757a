package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/models"
)

type TagRepository interface {
	Find(ctx context.Context, filter bson.M) ([]models.Tag, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Tag, error)
	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	UpdateTag(ctx context.Context, id primitive.ObjectID, input models.UpdateTagInput) (bool, error)
	DeleteTag(ctx context.Context, id primitive.ObjectID) error
}

type MongoTagRepository struct {
	DB *mongo.Database
}

func NewTagRepository(db *mongo.Database) TagRepository {
	return &MongoTagRepository{DB: db}
}

func (r *MongoTagRepository) Find(ctx context.Context, filter bson.M) ([]models.Tag, error) {
	cursor, err := r.DB.Collection("tags").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tags := []models.Tag{}
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *MongoTagRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Tag, error) {
	var tag models.Tag
	if err := r.DB.Collection("tags").FindOne(ctx, bson.M{"_id": id}).Decode(&tag); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (r *MongoTagRepository) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = time.Now()
	if tag.Products == nil {
		tag.Products = []primitive.ObjectID{}
	}

	res, err := r.DB.Collection("tags").InsertOne(ctx, tag)
	if err != nil {
		return models.Tag{}, err
	}
	tag.ID = res.InsertedID.(primitive.ObjectID)
	return tag, nil
}

func (r *MongoTagRepository) UpdateTag(ctx context.Context, id primitive.ObjectID, input models.UpdateTagInput) (bool, error) {
	input.UpdatedAt = time.Now()

	set, err := toBSONMap(input)
	if err != nil {
		return false, fmt.Errorf("encode update: %w", err)
	}
	mergeLocales(set, "name", input.Name)

	result, err := r.DB.Collection("tags").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoTagRepository) DeleteTag(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("tags").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
