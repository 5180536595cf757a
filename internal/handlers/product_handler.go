package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
	"github.com/bazarly/catalog-backend/internal/catalog"
	"github.com/bazarly/catalog-backend/internal/middleware"
	"github.com/bazarly/catalog-backend/internal/models"
	"github.com/bazarly/catalog-backend/utils"
)

type ProductHandler struct {
	Repo   repository.ProductRepository
	Search *catalog.Service
}

func NewProductHandler(repo repository.ProductRepository, search *catalog.Service) *ProductHandler {
	return &ProductHandler{Repo: repo, Search: search}
}

// SearchProducts answers the faceted storefront listing. Every facet is
// optional; malformed values are ignored rather than rejected.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	facets := catalog.SearchFacets{
		Name:        c.Query("name"),
		Vendor:      c.Query("vendor"),
		Owner:       c.Query("owner"),
		Featured:    c.Query("featured"),
		Promotional: c.Query("promotional"),
		MinPrice:    c.Query("min"),
		MaxPrice:    c.Query("max"),
		Rating:      c.Query("rating"),
		Category:    c.Query("category"),
		Tag:         c.Query("tag"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		Status:      c.Query("status"),
		StatusClass: c.Query("statusClass"),
		Locale:      middleware.Locale(c),
	}
	if raw := c.Query("categories"); raw != "" {
		facets.Categories = strings.Split(raw, ",")
	}
	if raw := c.Query("colors"); raw != "" {
		facets.Colors = strings.Split(raw, ",")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "12"))
	order := catalog.Order(c.DefaultQuery("order", string(catalog.OrderNewest)))

	result, err := h.Search.Search(ctx, facets, order, page, pageSize)
	if err != nil {
		logrus.WithError(err).Error("product search failed")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to search products"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("products fetched successfully", result))
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, err := h.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("failed to fetch product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch product"))
		return
	}
	product.GroupedVariants = catalog.GroupVariants(product.Variants)

	c.JSON(http.StatusOK, utils.SuccessResponse("product fetched successfully", gin.H{"product": product}))
}

// GroupVariants exposes the pure grouping algorithm: callers post a flat
// fragment list and get the per-axis combinations back. No I/O.
func (h *ProductHandler) GroupVariants(c *gin.Context) {
	var input struct {
		Variants []models.VariantFragment `json:"variants"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json body"))
		return
	}

	grouped := catalog.GroupVariants(input.Variants)
	c.JSON(http.StatusOK, utils.SuccessResponse("variants grouped successfully", gin.H{"grouped": grouped}))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json body"))
		return
	}
	if err := validate.Struct(product); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}
	if product.IsCombination && len(product.Variants) == 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("combination products need at least one variant"))
		return
	}
	if !product.IsCombination && len(product.Variants) > 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("simple products cannot carry variants"))
		return
	}
	if product.Status == "" {
		product.Status = models.ProductStatusShow
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateProduct(ctx, product)
	if err != nil {
		logrus.WithError(err).Error("failed to create product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create product"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Product created successfully", gin.H{"product": created}))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid json format"))
		return
	}
	if err := validate.Struct(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.UpdateProduct(ctx, id, input)
	if err != nil {
		logrus.WithError(err).Error("failed to update product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to update product"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("product updated successfully", gin.H{"success": true}))
}

// PatchProduct applies a raw patch document atomically.
func (h *ProductHandler) PatchProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	var patch bson.M
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid json format"))
		return
	}
	delete(patch, "_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.PatchProduct(ctx, id, patch)
	if err != nil {
		logrus.WithError(err).Error("failed to patch product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to patch product"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("product patched successfully", gin.H{"success": true}))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
			return
		}
		logrus.WithError(err).Error("failed to delete product")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to delete product"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("product deleted successfully", gin.H{"success": true}))
}

// DeleteProducts removes a batch of products by id.
func (h *ProductHandler) DeleteProducts(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json body"))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(input.IDs))
	for _, raw := range input.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id: "+raw))
			return
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := h.Repo.DeleteProducts(ctx, ids)
	if err != nil {
		logrus.WithError(err).Error("failed to delete products")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to delete products"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("products deleted successfully", gin.H{"deleted": deleted}))
}
