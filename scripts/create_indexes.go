package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes
// Usage: go run scripts/create_indexes.go
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	clientOptions := options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "catalog"
	}
	db := client.Database(dbName)

	products := db.Collection("products")

	indexes := []struct {
		collection *mongo.Collection
		model      mongo.IndexModel
	}{
		// Status filter and the default newest-first listing
		{products, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		}},
		// Category membership lookups drive both faceted search and the
		// per-ancestor live product counts
		{products, mongo.IndexModel{
			Keys:    bson.D{{Key: "categories", Value: 1}},
			Options: options.Index().SetName("idx_categories"),
		}},
		{products, mongo.IndexModel{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_tags"),
		}},
		{products, mongo.IndexModel{
			Keys:    bson.D{{Key: "brand", Value: 1}},
			Options: options.Index().SetName("idx_brand"),
		}},
		{products, mongo.IndexModel{
			Keys:    bson.D{{Key: "prices.originalPrice", Value: 1}},
			Options: options.Index().SetName("idx_original_price"),
		}},
		{db.Collection("categories"), mongo.IndexModel{
			Keys:    bson.D{{Key: "parentId", Value: 1}},
			Options: options.Index().SetName("idx_parent"),
		}},
		{db.Collection("tags"), mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_slug").SetUnique(true),
		}},
		{db.Collection("currencies"), mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("idx_code").SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		name := *idx.model.Options.Name
		if _, err := idx.collection.Indexes().CreateOne(ctx, idx.model); err != nil {
			log.Printf("Failed to create %s: %v", name, err)
		} else {
			log.Printf("Created index: %s", name)
		}
	}

	log.Println("Index creation finished")
}
