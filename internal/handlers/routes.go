package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
	"github.com/bazarly/catalog-backend/internal/catalog"
	"github.com/bazarly/catalog-backend/internal/middleware"
)

var validate = validator.New()

func SetupRoutes(router *gin.Engine, db *mongo.Database) {
	logrus.Info("Setting up routes...")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "catalog-backend",
		})
	})

	if db == nil {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Database connection not available",
			})
		})
		return
	}

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)

	searchService := catalog.NewService(productRepo, categoryRepo, tagRepo, attributeRepo)
	treeService := catalog.NewTreeService(categoryRepo, productRepo)

	productHandler := NewProductHandler(productRepo, searchService)
	categoryHandler := NewCategoryHandler(categoryRepo, treeService)
	tagHandler := NewTagHandler(tagRepo)
	attributeHandler := NewAttributeHandler(attributeRepo)
	currencyHandler := NewCurrencyHandler(currencyRepo)
	uploadHandler := NewUploadHandler()

	router.Use(middleware.LocaleMiddleware())

	// Public storefront routes
	public := router.Group("/api/v1")
	{
		public.GET("/products", productHandler.SearchProducts)
		public.GET("/products/:id", productHandler.GetProductByID)
		public.POST("/products/group-variants", productHandler.GroupVariants)

		public.GET("/categories", categoryHandler.GetAllCategories)
		public.GET("/categories/tree", categoryHandler.GetCategoryTree)
		public.GET("/categories/with-products", categoryHandler.GetCategoriesWithProducts)

		public.GET("/tags", tagHandler.GetAllTags)
		public.GET("/attributes", attributeHandler.GetAllAttributes)
		public.GET("/currencies", currencyHandler.GetAllCurrencies)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin"))
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.PATCH("/products/:id", productHandler.PatchProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.POST("/products/delete-many", productHandler.DeleteProducts)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.POST("/tags", tagHandler.CreateTag)
		admin.PUT("/tags/:id", tagHandler.UpdateTag)
		admin.DELETE("/tags/:id", tagHandler.DeleteTag)

		admin.POST("/attributes", attributeHandler.CreateAttribute)
		admin.DELETE("/attributes/:id", attributeHandler.DeleteAttribute)

		admin.POST("/currencies", currencyHandler.CreateCurrency)
		admin.PUT("/currencies/:id/rate", currencyHandler.UpdateRate)
		admin.DELETE("/currencies/:id", currencyHandler.DeleteCurrency)

		admin.POST("/upload", uploadHandler.UploadImage)
	}
}
