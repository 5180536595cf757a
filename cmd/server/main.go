package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
	"github.com/bazarly/catalog-backend/internal/config"
	"github.com/bazarly/catalog-backend/internal/database"
	"github.com/bazarly/catalog-backend/internal/handlers"
	"github.com/bazarly/catalog-backend/internal/mq"
)

func main() {
	cfg := config.LoadConfig()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	db := client.Database(cfg.MongoDB)
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Warn("failed to disconnect from MongoDB")
		}
	}()

	if cfg.AmqpURL != "" {
		consumer, err := mq.NewStockConsumer(cfg.AmqpURL, repository.NewProductRepository(db))
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to message broker")
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Run(context.Background()); err != nil {
				logrus.WithError(err).Error("stock consumer stopped")
			}
		}()
	}

	router := gin.Default()
	router.Use(cors.Default())
	handlers.SetupRoutes(router, db)

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
