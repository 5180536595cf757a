package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
	"github.com/bazarly/catalog-backend/internal/catalog"
	"github.com/bazarly/catalog-backend/internal/models"
	"github.com/bazarly/catalog-backend/utils"
)

type CategoryHandler struct {
	Repo repository.CategoryRepository
	Tree *catalog.TreeService
}

func NewCategoryHandler(repo repository.CategoryRepository, tree *catalog.TreeService) *CategoryHandler {
	return &CategoryHandler{Repo: repo, Tree: tree}
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.Repo.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch categories"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("categories fetched successfully", gin.H{"categories": categories}))
}

// GetCategoryTree returns the full parent/child forest with live product
// counts per node.
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	forest, err := h.Tree.CategoryTree(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to assemble category tree")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch category tree"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("category tree fetched successfully", gin.H{"tree": forest}))
}

// GetCategoriesWithProducts returns the forest restricted to categories that
// currently have at least one product, with their full ancestor chains.
func (h *CategoryHandler) GetCategoriesWithProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	forest, err := h.Tree.CategoriesWithProducts(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to assemble categories with products")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch categories"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("categories fetched successfully", gin.H{"tree": forest}))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateCategory(ctx, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to create category"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("category created successfully", gin.H{"category": created}))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid category id"))
		return
	}

	var input models.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid json format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.UpdateCategory(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to update category"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("category not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("category updated successfully", gin.H{"success": true}))
}

// DeleteCategory removes the category and its direct children only.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := h.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("category not found"))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to delete category")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to delete category"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("category deleted successfully", gin.H{"deleted": deleted}))
}
