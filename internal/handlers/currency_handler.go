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

type CurrencyHandler struct {
	Repo repository.CurrencyRepository
}

func NewCurrencyHandler(repo repository.CurrencyRepository) *CurrencyHandler {
	return &CurrencyHandler{Repo: repo}
}

func (h *CurrencyHandler) GetAllCurrencies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	currencies, err := h.Repo.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch currencies"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("currencies fetched successfully", gin.H{"currencies": currencies}))
}

func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	var currency models.Currency
	if err := c.ShouldBindJSON(&currency); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(currency); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateCurrency(ctx, currency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to create currency"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("currency created successfully", gin.H{"currency": created}))
}

func (h *CurrencyHandler) UpdateRate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid currency id"))
		return
	}

	var input struct {
		Rate float64 `json:"rate" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid json format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.UpdateRate(ctx, id, input.Rate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to update rate"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("currency not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("rate updated successfully", gin.H{"success": true}))
}

func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid currency id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteCurrency(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("currency not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("currency deleted successfully", gin.H{"success": true}))
}
