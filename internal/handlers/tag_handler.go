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

type TagHandler struct {
	Repo repository.TagRepository
}

func NewTagHandler(repo repository.TagRepository) *TagHandler {
	return &TagHandler{Repo: repo}
}

func (h *TagHandler) GetAllTags(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tags, err := h.Repo.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch tags"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("tags fetched successfully", gin.H{"tags": tags}))
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var tag models.Tag
	if err := c.ShouldBindJSON(&tag); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(tag); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateTag(ctx, tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to create tag"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("tag created successfully", gin.H{"tag": created}))
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid tag id"))
		return
	}

	var input models.UpdateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid json format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.UpdateTag(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to update tag"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("tag not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("tag updated successfully", gin.H{"success": true}))
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid tag id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteTag(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("tag not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("tag deleted successfully", gin.H{"success": true}))
}
