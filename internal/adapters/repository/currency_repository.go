package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bazarly/catalog-backend/internal/models"
)

type CurrencyRepository interface {
	Find(ctx context.Context, filter bson.M) ([]models.Currency, error)
	CreateCurrency(ctx context.Context, currency models.Currency) (models.Currency, error)
	UpdateRate(ctx context.Context, id primitive.ObjectID, rate float64) (bool, error)
	DeleteCurrency(ctx context.Context, id primitive.ObjectID) error
}

type MongoCurrencyRepository struct {
	DB *mongo.Database
}

func NewCurrencyRepository(db *mongo.Database) CurrencyRepository {
	return &MongoCurrencyRepository{DB: db}
}

func (r *MongoCurrencyRepository) Find(ctx context.Context, filter bson.M) ([]models.Currency, error) {
	opts := options.Find().SetSort(bson.M{"code": 1})
	cursor, err := r.DB.Collection("currencies").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	currencies := []models.Currency{}
	if err := cursor.All(ctx, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (r *MongoCurrencyRepository) CreateCurrency(ctx context.Context, currency models.Currency) (models.Currency, error) {
	currency.CreatedAt = time.Now()
	currency.UpdatedAt = time.Now()

	res, err := r.DB.Collection("currencies").InsertOne(ctx, currency)
	if err != nil {
		return models.Currency{}, err
	}
	currency.ID = res.InsertedID.(primitive.ObjectID)
	return currency, nil
}

func (r *MongoCurrencyRepository) UpdateRate(ctx context.Context, id primitive.ObjectID, rate float64) (bool, error) {
	result, err := r.DB.Collection("currencies").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rate": rate, "updatedAt": time.Now()}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoCurrencyRepository) DeleteCurrency(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("currencies").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
