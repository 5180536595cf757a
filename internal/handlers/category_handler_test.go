package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bazarly/catalog-backend/internal/models"
)

type stubCategoryRepo struct {
	deleteCount int64
	deleteErr   error
}

func (s *stubCategoryRepo) Find(_ context.Context, _ bson.M) ([]models.Category, error) {
	return nil, nil
}

func (s *stubCategoryRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryRepo) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	c.ID = primitive.NewObjectID()
	return c, nil
}

func (s *stubCategoryRepo) UpdateCategory(_ context.Context, _ primitive.ObjectID, _ models.UpdateCategoryInput) (bool, error) {
	return true, nil
}

func (s *stubCategoryRepo) DeleteCategory(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return s.deleteCount, s.deleteErr
}

func newCategoryTestRouter(repo *stubCategoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(repo, nil)

	router := gin.New()
	router.DELETE("/api/v1/categories/:id", handler.DeleteCategory)
	return router
}

func TestDeleteCategoryReportsCascadeCount(t *testing.T) {
	router := newCategoryTestRouter(&stubCategoryRepo{deleteCount: 3})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Deleted int64 `json:"deleted"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.Deleted)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	router := newCategoryTestRouter(&stubCategoryRepo{deleteErr: mongo.ErrNoDocuments})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryStoreFailure(t *testing.T) {
	router := newCategoryTestRouter(&stubCategoryRepo{deleteErr: errors.New("connection reset")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
