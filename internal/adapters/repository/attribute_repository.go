package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/models"
)

type AttributeRepository interface {
	Find(ctx context.Context, filter bson.M) ([]models.Attribute, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Attribute, error)
	CreateAttribute(ctx context.Context, attribute models.Attribute) (models.Attribute, error)
	DeleteAttribute(ctx context.Context, id primitive.ObjectID) error
}

type MongoAttributeRepository struct {
	DB *mongo.Database
}

func NewAttributeRepository(db *mongo.Database) AttributeRepository {
	return &MongoAttributeRepository{DB: db}
}

func (r *MongoAttributeRepository) Find(ctx context.Context, filter bson.M) ([]models.Attribute, error) {
	cursor, err := r.DB.Collection("attributes").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attributes := []models.Attribute{}
	if err := cursor.All(ctx, &attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

func (r *MongoAttributeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Attribute, error) {
	var attribute models.Attribute
	if err := r.DB.Collection("attributes").FindOne(ctx, bson.M{"_id": id}).Decode(&attribute); err != nil {
		return models.Attribute{}, err
	}
	return attribute, nil
}

func (r *MongoAttributeRepository) CreateAttribute(ctx context.Context, attribute models.Attribute) (models.Attribute, error) {
	attribute.CreatedAt = time.Now()
	attribute.UpdatedAt = time.Now()

	// Options need their own ids so variant fragments can reference them.
	for i := range attribute.Variants {
		if attribute.Variants[i].ID.IsZero() {
			attribute.Variants[i].ID = primitive.NewObjectID()
		}
	}

	res, err := r.DB.Collection("attributes").InsertOne(ctx, attribute)
	if err != nil {
		return models.Attribute{}, err
	}
	attribute.ID = res.InsertedID.(primitive.ObjectID)
	return attribute, nil
}

func (r *MongoAttributeRepository) DeleteAttribute(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("attributes").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
