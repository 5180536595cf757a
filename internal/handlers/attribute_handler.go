package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazarly/catalog-backend/internal/adapters/repository"
	"github.com/bazarly/catalog-backend/internal/models"
	"github.com/bazarly/catalog-backend/utils"
)

type AttributeHandler struct {
	Repo repository.AttributeRepository
}

func NewAttributeHandler(repo repository.AttributeRepository) *AttributeHandler {
	return &AttributeHandler{Repo: repo}
}

func (h *AttributeHandler) GetAllAttributes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	attributes, err := h.Repo.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch attributes"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("attributes fetched successfully", gin.H{"attributes": attributes}))
}

func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	var attribute models.Attribute
	if err := c.ShouldBindJSON(&attribute); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(attribute); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateAttribute(ctx, attribute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to create attribute"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("attribute created successfully", gin.H{"attribute": created}))
}

func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid attribute id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteAttribute(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("attribute not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("attribute deleted successfully", gin.H{"success": true}))
}
