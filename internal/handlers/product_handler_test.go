package handlers

import (
	"bytes"
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

	"github.com/bazarly/catalog-backend/internal/catalog"
	"github.com/bazarly/catalog-backend/internal/models"
)

type stubProductRepo struct {
	products    []models.Product
	findByIDErr error
}

func (s *stubProductRepo) Find(_ context.Context, _ bson.M, _ bson.D, skip, limit int64) ([]models.Product, error) {
	items := s.products
	if skip > 0 && skip < int64(len(items)) {
		items = items[skip:]
	} else if skip >= int64(len(items)) {
		items = nil
	}
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items, nil
}

func (s *stubProductRepo) Count(_ context.Context, _ bson.M) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubProductRepo) CountByCategory(_ context.Context) (map[primitive.ObjectID]int64, error) {
	return map[primitive.ObjectID]int64{}, nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	if s.findByIDErr != nil {
		return models.Product{}, s.findByIDErr
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, mongo.ErrNoDocuments
}

func (s *stubProductRepo) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	p.ID = primitive.NewObjectID()
	s.products = append(s.products, p)
	return p, nil
}

func (s *stubProductRepo) UpdateProduct(_ context.Context, _ primitive.ObjectID, _ models.UpdateProductInput) (bool, error) {
	return true, nil
}

func (s *stubProductRepo) PatchProduct(_ context.Context, _ primitive.ObjectID, _ bson.M) (bool, error) {
	return true, nil
}

func (s *stubProductRepo) DeleteProduct(_ context.Context, _ primitive.ObjectID) error { return nil }

func (s *stubProductRepo) DeleteProducts(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	return int64(len(ids)), nil
}

func (s *stubProductRepo) DecrementStock(_ context.Context, _ primitive.ObjectID, _ int) error {
	return nil
}

type stubCategoryStore struct{}

func (stubCategoryStore) Find(_ context.Context, _ bson.M) ([]models.Category, error) {
	return nil, nil
}
func (stubCategoryStore) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Category, error) {
	return nil, nil
}

type stubTagStore struct{}

func (stubTagStore) Find(_ context.Context, _ bson.M) ([]models.Tag, error) { return nil, nil }

type stubAttributeStore struct{}

func (stubAttributeStore) Find(_ context.Context, _ bson.M) ([]models.Attribute, error) {
	return nil, nil
}

func newTestRouter(repo *stubProductRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	search := catalog.NewService(repo, stubCategoryStore{}, stubTagStore{}, stubAttributeStore{})
	handler := NewProductHandler(repo, search)

	router := gin.New()
	router.GET("/api/v1/products", handler.SearchProducts)
	router.GET("/api/v1/products/:id", handler.GetProductByID)
	router.POST("/api/v1/products/group-variants", handler.GroupVariants)
	return router
}

func TestSearchProductsEndpoint(t *testing.T) {
	repo := &stubProductRepo{}
	for i := 0; i < 3; i++ {
		repo.products = append(repo.products, models.Product{
			ID:     primitive.NewObjectID(),
			Name:   "Running Shoe",
			Status: models.ProductStatusShow,
		})
	}
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1&pageSize=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Items      []models.Product `json:"items"`
			TotalCount int64            `json:"totalCount"`
			NextPage   *int             `json:"nextPage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Items, 2)
	assert.Equal(t, int64(3), body.Data.TotalCount)
	require.NotNil(t, body.Data.NextPage)
	assert.Equal(t, 2, *body.Data.NextPage)
}

func TestGetProductByIDNotFound(t *testing.T) {
	router := newTestRouter(&stubProductRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductByIDStoreFailure(t *testing.T) {
	router := newTestRouter(&stubProductRepo{findByIDErr: errors.New("connection reset")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	// A store outage is not a missing product.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGroupVariantsEndpoint(t *testing.T) {
	router := newTestRouter(&stubProductRepo{})

	axis := "64f1a2b3c4d5e6f708192a3b"
	payload := map[string]interface{}{
		"variants": []map[string]interface{}{
			{axis: "111111111111111111111111", "price": 10},
			{axis: "111111111111111111111111", "quantity": 4},
			{axis: "222222222222222222222222", "price": 12},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/group-variants", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Grouped map[string][]models.VariantCombination `json:"grouped"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Data.Grouped, axis)
	assert.Len(t, body.Data.Grouped[axis], 2)
}
